// Package prompts holds the completion prompt templates for summarization
// and question answering.
package prompts

import (
	"fmt"
	"unicode/utf8"

	"github.com/ziadkadry99/linkbase/internal/llm"
)

const summarySystemPrompt = `You are a helpful assistant that creates concise summaries.`

const answerSystemPrompt = `You are a helpful assistant.`

const webTemplate = `Summarize the following web article in 3-5 sentences. Focus on the main points and key takeaways. Write for a reader who has not seen the page.

Article content:

%s`

const videoTemplate = `Summarize the following video transcript in 3-5 sentences. The video is %s long. Focus on the main topics covered and any conclusions drawn.

Transcript:

%s`

const pdfTemplate = `Summarize the following PDF document in 3-5 sentences. Focus on its purpose, main findings, and conclusions.

Document content:

%s`

const repositoryTemplate = `Summarize the following repository README in 3-5 sentences. Explain what the project does, who it is for, and how it is used.

README content:

%s`

const answerTemplate = `Answer the user's question using the retrieved documents and the conversation so far. If the documents do not contain the answer, say so instead of guessing. Cite document titles when you draw on them.

Conversation so far:
%s

Retrieved documents:
%s

Question: %s`

// maxContentLength bounds how much extracted text goes into a summary prompt.
const maxContentLength = 15000

// TruncateContent caps content for prompting, marking the cut. The cut lands
// on a rune boundary so multi-byte text is never left with a partial rune.
func TruncateContent(content string) string {
	if len(content) <= maxContentLength {
		return content
	}
	cut := maxContentLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + "\n\n[Content truncated...]"
}

// SummaryMessages builds the completion messages for summarizing extracted
// content. The duration argument is only used for video content.
func SummaryMessages(contentType, content, duration string) []llm.Message {
	content = TruncateContent(content)

	var user string
	switch contentType {
	case "video":
		user = fmt.Sprintf(videoTemplate, duration, content)
	case "pdf":
		user = fmt.Sprintf(pdfTemplate, content)
	case "repository":
		user = fmt.Sprintf(repositoryTemplate, content)
	default:
		user = fmt.Sprintf(webTemplate, content)
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: summarySystemPrompt},
		{Role: llm.RoleUser, Content: user},
	}
}

// AnswerMessages builds the completion messages for answering a question
// against formatted history and retrieved documents.
func AnswerMessages(history, documents, question string) []llm.Message {
	user := fmt.Sprintf(answerTemplate, history, documents, question)
	return []llm.Message{
		{Role: llm.RoleSystem, Content: answerSystemPrompt},
		{Role: llm.RoleUser, Content: user},
	}
}
