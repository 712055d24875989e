package websearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"

	"github.com/bizmate-ai/bizmate/pkg/service/websearch"
)

func TestClient_Search(t *testing.T) {
	t.Run("event shape is preferred", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Query().Get("q")).Equal("who won the cup final")
			gt.String(t, r.URL.Query().Get("api_key")).NotEqual("")

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"sports_results": {
					"title": "Cup Final",
					"game_spotlight": {
						"status": "Final",
						"teams": [
							{"name": "Rovers", "score": "2"},
							{"name": "United", "score": "1"}
						]
					}
				},
				"organic_results": [
					{"title": "ignored", "snippet": "should not appear"}
				]
			}`))
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		result, err := client.Search(context.Background(), "who won the cup final")
		gt.NoError(t, err).Required()
		gt.Value(t, result).NotNil()

		gt.Bool(t, result.Event).True()
		gt.Bool(t, strings.Contains(result.Text, "Rovers: 2")).True()
		gt.Bool(t, strings.Contains(result.Text, "United: 1")).True()
		gt.Bool(t, strings.Contains(result.Text, "should not appear")).False()
		gt.Bool(t, strings.HasPrefix(result.Text, "Web results as of ")).True()
	})

	t.Run("answer box and organic snippets", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"answer_box": {"title": "Gas price", "answer": "$3.45 per gallon"},
				"organic_results": [
					{"title": "AAA", "snippet": "National average rose this week"},
					{"title": "No snippet", "snippet": ""}
				]
			}`))
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		result, err := client.Search(context.Background(), "price of gas")
		gt.NoError(t, err).Required()

		gt.Bool(t, result.Event).False()
		gt.Bool(t, strings.Contains(result.Text, "Gas price: $3.45 per gallon")).True()
		gt.Bool(t, strings.Contains(result.Text, "AAA: National average rose this week")).True()
	})

	t.Run("empty result set yields nil", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		result, err := client.Search(context.Background(), "anything")
		gt.NoError(t, err).Required()
		gt.Value(t, result).Nil()
	})

	t.Run("long results are bounded", func(t *testing.T) {
		long := strings.Repeat("very long snippet text ", 200)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"organic_results": [{"title": "Long", "snippet": "` + long + `"}]}`))
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		result, err := client.Search(context.Background(), "anything")
		gt.NoError(t, err).Required()
		gt.Bool(t, len(result.Text) < 2000).True()
	})

	t.Run("truncation keeps runes intact", func(t *testing.T) {
		long := strings.Repeat("天気予報は晴れです ", 250)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"organic_results": [{"title": "予報", "snippet": "` + long + `"}]}`))
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		result, err := client.Search(context.Background(), "anything")
		gt.NoError(t, err).Required()
		gt.Bool(t, utf8.ValidString(result.Text)).True()
		gt.Bool(t, utf8.RuneCountInString(result.Text) < 1900).True()
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := websearch.New("test-key", websearch.WithBaseURL(srv.URL))
		_, err := client.Search(context.Background(), "anything")
		gt.Error(t, err)
	})
}
