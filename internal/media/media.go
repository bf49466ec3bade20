// Package media fetches the audio track of a remote video.
package media

import "context"

// Downloader fetches the best available audio of a video into a directory.
type Downloader interface {
	// Download writes the audio file into dir and returns its path.
	//
	// Errors wrap model.ErrDownload when the source rejects the URL or no
	// audio is produced, and model.ErrProcessing for local failures such as a
	// missing binary, an I/O error or cancellation.
	//
	// dir must exist and should be empty; the first file found there is
	// taken as the result.
	Download(ctx context.Context, videoURL, dir string) (string, error)
}

// CommandRunner executes an external program.
type CommandRunner interface {
	// Run executes name with args in dir and returns its combined output.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}
