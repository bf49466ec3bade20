// Package ai adapts speech-to-text and text-generation services.
package ai

import "context"

// Transcriber converts an audio file into plain text.
type Transcriber interface {
	// Transcribe returns the transcript of the audio at path. label identifies
	// the request in logs.
	//
	// Errors wrap model.ErrTranscription when the service fails and
	// model.ErrProcessing when the file cannot be read.
	Transcribe(ctx context.Context, path, label string) (string, error)
}

// TextGenerator completes a prompt with a language model.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
