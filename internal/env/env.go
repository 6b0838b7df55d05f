package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// Load reads each dotenv file that exists, in order. Variables already set,
// by the environment or an earlier file, are never overridden.
func Load(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
