package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/theapemachine/mcp-server-webex-bridge/core"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/news"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(res *mcp.CallToolResult) string {
	if res == nil || len(res.Content) == 0 {
		return ""
	}
	if text, ok := res.Content[0].(mcp.TextContent); ok {
		return text.Text
	}
	return ""
}

func newFeedServer(t *testing.T) (*httptest.Server, *atomic.Int32, *atomic.Value) {
	t.Helper()

	var requests atomic.Int32
	var lastQuery atomic.Value
	lastQuery.Store("")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		lastQuery.Store(r.URL.RawQuery)
		fmt.Fprintf(w,
			`<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>test</title><item><title>Cisco ships a new switch - Example Times</title><link>https://example.com/a</link><pubDate>%s</pubDate></item></channel></rss>`,
			time.Now().Add(-time.Hour).Format(time.RFC1123Z),
		)
	}))
	t.Cleanup(srv.Close)
	return srv, &requests, &lastQuery
}

func TestNewsTool(t *testing.T) {
	Convey("Given a get_news tool", t, func() {
		srv, requests, _ := newFeedServer(t)
		fetcher := news.NewFetcher(srv.URL, "", 5*time.Second)
		tool := NewNewsTool(fetcher, 7)

		Convey("It should implement the core.Tool interface", func() {
			So(tool, ShouldImplement, (*core.Tool)(nil))
		})

		Convey("It should have the correct name and schema", func() {
			handle := tool.Handle()
			So(handle.Name, ShouldEqual, "get_news")
			So(handle.InputSchema.Required, ShouldContain, "topic")

			_, hasTopic := handle.InputSchema.Properties["topic"]
			_, hasWindow := handle.InputSchema.Properties["window_days"]
			So(hasTopic, ShouldBeTrue)
			So(hasWindow, ShouldBeTrue)
		})

		Convey("When called with a valid topic", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_news", map[string]any{"topic": "Cisco"}))

			Convey("Then it returns the articles as a JSON array", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)

				var articles []news.Article
				So(json.Unmarshal([]byte(resultText(res)), &articles), ShouldBeNil)
				So(articles, ShouldHaveLength, 1)
				So(articles[0].Title, ShouldEqual, "Cisco ships a new switch")
			})
		})

		Convey("When called with an empty topic", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_news", map[string]any{"topic": "   "}))

			Convey("Then it returns a validation error without a network call", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(resultText(res), ShouldStartWith, "invalid_argument:")
				So(requests.Load(), ShouldEqual, 0)
			})
		})

		Convey("When called without a topic", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_news", map[string]any{}))

			Convey("Then it returns a validation error", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(resultText(res), ShouldStartWith, "invalid_argument:")
			})
		})

		Convey("When called with a negative window", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_news", map[string]any{
				"topic":       "Cisco",
				"window_days": float64(-3),
			}))

			Convey("Then it returns a validation error without a network call", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(resultText(res), ShouldStartWith, "invalid_argument:")
				So(requests.Load(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a get_news tool over an unreachable feed", t, func() {
		fetcher := news.NewFetcher("http://127.0.0.1:1", "", time.Second)
		tool := NewNewsTool(fetcher, 7)

		Convey("When called", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_news", map[string]any{"topic": "Cisco"}))

			Convey("Then the failure is a structured fetch error, not a transport fault", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeTrue)
				So(resultText(res), ShouldStartWith, "fetch_error:")
			})
		})
	})
}

func TestCiscoNewsTool(t *testing.T) {
	Convey("Given a get_cisco_news tool", t, func() {
		srv, _, lastQuery := newFeedServer(t)
		fetcher := news.NewFetcher(srv.URL, "", 5*time.Second)
		tool := NewCiscoNewsTool(fetcher)

		Convey("It should have the correct name", func() {
			So(tool.Handle().Name, ShouldEqual, "get_cisco_news")
		})

		Convey("When called", func() {
			res, err := tool.Handler(context.Background(), callRequest("get_cisco_news", nil))

			Convey("Then it queries for Cisco over the last week", func() {
				So(err, ShouldBeNil)
				So(res.IsError, ShouldBeFalse)

				query, _ := lastQuery.Load().(string)
				So(strings.Contains(query, "intitle%3ACisco"), ShouldBeTrue)
				So(strings.Contains(query, "when%3A7d"), ShouldBeTrue)
			})
		})
	})
}
