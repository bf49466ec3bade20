package ai

import "fmt"

// StructuringSystemPrompt instructs the model how to turn a transcript into a summary.
const StructuringSystemPrompt = `You are an expert at transforming raw video transcripts into well-structured, readable summaries.
Your goal is to make the content easily digestible. Please:

1. Identify the main topics and key points discussed in the transcript.
2. Organize the content into logical sections with clear headings if appropriate (e.g., Introduction, Key Topic 1, Key Topic 2, Conclusion).
3. Summarize the information concisely under each section or as a general summary if sections are not natural.
4. Correct any obvious transcription errors or awkward phrasing to improve readability, but preserve the original meaning.
5. Use bullet points or numbered lists for actionable items or distinct ideas where it enhances clarity.
6. Maintain a neutral and objective tone.
7. Ensure the final output is well-formatted text.`

// StructuringUserPrompt wraps transcript in the delimiters the system prompt expects.
func StructuringUserPrompt(transcript string) string {
	return fmt.Sprintf("Please structure and summarize the following video transcript:\n\n--BEGIN TRANSCRIPT--\n%s\n--END TRANSCRIPT--", transcript)
}
