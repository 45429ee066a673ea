//go:build !linux

package pfile

import "os"

func adviseSequential(*os.File) error {
	return nil
}
