package webex

import (
	"fmt"

	"github.com/theapemachine/mcp-server-webex-bridge/pkg/news"
)

// CardContentType is the attachment content type Webex requires for
// adaptive cards.
const CardContentType = "application/vnd.microsoft.card.adaptive"

// NewsCard builds an adaptive card bulletin from a list of articles: a header
// block followed by one container per article with the title, the source and
// date, the stripped description and a link.
func NewsCard(articles []news.Article) map[string]any {
	body := []any{
		map[string]any{
			"type":   "TextBlock",
			"text":   "News Update",
			"size":   "Large",
			"weight": "Bolder",
		},
	}

	for _, article := range articles {
		items := []any{
			map[string]any{
				"type":   "TextBlock",
				"text":   article.Title,
				"weight": "Bolder",
				"wrap":   true,
			},
			map[string]any{
				"type":     "TextBlock",
				"text":     fmt.Sprintf("%s · %s", article.Source, article.PublishedAt.Format("Jan 2, 2006")),
				"isSubtle": true,
				"spacing":  "None",
				"size":     "Small",
			},
		}

		if article.Description != "" {
			items = append(items, map[string]any{
				"type": "TextBlock",
				"text": article.Description,
				"wrap": true,
			})
		}

		items = append(items, map[string]any{
			"type":     "TextBlock",
			"text":     fmt.Sprintf("[Read more](%s)", article.Link),
			"isSubtle": true,
			"size":     "Small",
		})

		body = append(body, map[string]any{
			"type":      "Container",
			"separator": true,
			"items":     items,
		})
	}

	return map[string]any{
		"$schema": "http://adaptivecards.io/schemas/adaptive-card.json",
		"type":    "AdaptiveCard",
		"version": "1.2",
		"body":    body,
	}
}

// CardFallback is the plain-text stand-in shown by clients that cannot render
// adaptive cards.
func CardFallback(articles []news.Article) string {
	if len(articles) == 0 {
		return "News Update"
	}
	return "News Update: " + articles[0].Title
}
