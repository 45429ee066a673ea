//go:build !unix

package pfile

func isInterrupted(error) bool {
	return false
}
