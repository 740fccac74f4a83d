package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/linkbase/internal/extract"
	"github.com/ziadkadry99/linkbase/internal/linkdetect"
	"github.com/ziadkadry99/linkbase/internal/rag"
)

// handleLink runs the ingestion flow: classify, extract, summarize, index.
// The user's message is recorded even when extraction fails; the document is
// only indexed on success.
func (r *Router) handleLink(ctx context.Context, mgr *rag.Manager, msg Incoming, url string) []string {
	contentType := linkdetect.Classify(url)
	extractor := extract.New(contentType, r.deps)

	content, err := extractor.ExtractContent(ctx, url)
	if err != nil {
		log.Printf("bot: extraction failed for %s: %v", url, err)
		r.saveUserMessage(ctx, msg)
		return []string{fmt.Sprintf("Sorry, I couldn't process this link. Error: %v", err)}
	}

	docName := extractor.DocumentName(ctx, url, content)

	duration := "Unknown"
	if v, ok := extractor.(*extract.Video); ok {
		duration = v.Duration()
	}

	summary, err := mgr.Summarize(ctx, string(contentType), content, duration)
	if err != nil {
		log.Printf("bot: summarization failed for %s: %v", url, err)
		r.saveUserMessage(ctx, msg)
		return []string{fmt.Sprintf("Sorry, I couldn't process this link. Error: %v", err)}
	}

	doc, err := mgr.AddDocument(ctx, url, content, docName, string(contentType))
	if err != nil {
		log.Printf("bot: indexing failed for %s: %v", url, err)
		r.saveUserMessage(ctx, msg)
		return []string{fmt.Sprintf("Sorry, I couldn't process this link. Error: %v", err)}
	}

	replies := []string{fmt.Sprintf("**Summary of %s:**\n\n%s", docName, summary)}

	if list, err := mgr.Index().List(ctx); err == nil {
		replies = append(replies, formatDocumentList(list))
	}

	r.saveUserMessage(ctx, msg)
	r.saveBotMessage(ctx, msg.UserID,
		fmt.Sprintf("Summary of %s: %s", docName, summary),
		map[string]string{"doc_id": doc.DocID, "url": url},
	)

	return replies
}
