package main

import (
	"github.com/cockroachdb/errors"
)

// flagSet represents a flag that is either set (true) or not set (false).
type flagSet struct {
	name  string
	isSet bool
}

// requireNoFilesWith returns an error if explicit files are combined with
// flags that only affect discovery.
func requireNoFilesWith(files []string, flags ...flagSet) error {
	if len(files) == 0 {
		return nil
	}
	for _, f := range flags {
		if f.isSet {
			return errors.Newf("%s cannot be combined with explicit files", f.name)
		}
	}
	return nil
}
