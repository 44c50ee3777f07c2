package system

// shell is the default shell used to execute commands on windows platforms.
var shell = "cmd"

// flags are the flags passed to the shell to execute a command on windows platforms.
var flags = []string{"/C"}
