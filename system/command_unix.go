// +build !windows

package system

// shell is the default shell used to execute commands on unix platforms.
var shell = "/bin/sh"

// flags are the flags passed to the shell to execute a command on unix platforms.
var flags = []string{"-c"}
