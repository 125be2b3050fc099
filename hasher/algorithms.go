package hasher

import (
	"sort"

	"github.com/pkg/errors"
	"massnet.org/mdhash/crypto/engine"
	"massnet.org/mdhash/crypto/md5"
	"massnet.org/mdhash/crypto/sha256"
)

// ErrUnknownAlgorithm is returned for algorithm names without an engine.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

var algorithms = map[string]engine.Algorithm{
	sha256.Algorithm.Name(): sha256.Algorithm,
	md5.Algorithm.Name():    md5.Algorithm,
}

// LookupAlgorithm returns the algorithm registered under name.
func LookupAlgorithm(name string) (engine.Algorithm, error) {
	alg, ok := algorithms[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownAlgorithm, name)
	}
	return alg, nil
}

// AlgorithmNames lists the supported algorithm names, sorted.
func AlgorithmNames() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
