package resolver

import (
	"context"

	"github.com/ngdp-go/casc/casc/container"
	"github.com/ngdp-go/casc/casc/loose"
	"github.com/ngdp-go/casc/key"
	"github.com/ngdp-go/casc/keystore"
)

// LooseSource adapts a loose-file store into a Source, so a resolver can fall back to uncommitted files once every
// container in front of it has missed. Keys may be nil when no loose file is expected to carry encrypted chunks.
type LooseSource struct {
	Store *loose.Store
	Keys  keystore.Provider
}

var _ Source = (*LooseSource)(nil)

// Read implements Source.
func (s *LooseSource) Read(_ context.Context, ekey key.EKey) ([]byte, error) {
	ok, err := s.Store.Has(ekey)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, &container.NotFoundError{Key: ekey}
	}

	return s.Store.Decode(ekey, s.Keys)
}
