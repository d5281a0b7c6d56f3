package joplin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghoplin/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := New(Config{BaseURL: server.URL, Token: "tok", Timeout: 2 * time.Second}, logger)
	require.NoError(t, err)
	return client
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{BaseURL: "http://localhost:41184/"}, slog.Default())

	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestGetNoteBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notes/abc", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		assert.Equal(t, "body", r.URL.Query().Get("fields"))
		_, _ = w.Write([]byte(`{"body":"{\"blogs\":[]}"}`))
	})

	body, err := client.GetNoteBody(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, `{"blogs":[]}`, body)
}

func TestGetNoteBody_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}`))
	})

	_, err := client.GetNoteBody(context.Background(), "abc")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, errors.Is(err, domain.ErrTransport))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestGetNoteBody_MissingField(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	})

	_, err := client.GetNoteBody(context.Background(), "abc")

	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestGetNoteBody_NullIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	_, err := client.GetNoteBody(context.Background(), "00000000000031337000000000000001")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCreateNote_Payload(t *testing.T) {
	ts := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/notes", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "nb1", payload["parent_id"])
		assert.Equal(t, "Hello", payload["title"])
		assert.Equal(t, "<p>hi</p>", payload["body_html"])
		assert.Equal(t, "https://blog.example/hello/?ref=rss", payload["source_url"])
		assert.Equal(t, "https://blog.example/hello/", payload["base_url"])
		assert.Equal(t, float64(ts.UnixMilli()), payload["user_created_time"])
		assert.Equal(t, float64(ts.UnixMilli()), payload["user_updated_time"])
		assert.Equal(t, SourceApplication, payload["source_application"])
		assert.NotContains(t, payload, "body")
		assert.NotContains(t, payload, "id")

		_, _ = w.Write([]byte(`{"id":"note1"}`))
	})

	id, err := client.CreateNote(context.Background(), domain.NewNote{
		NotebookID:  "nb1",
		Title:       "Hello",
		BodyHTML:    "<p>hi</p>",
		SourceURL:   "https://blog.example/hello/?ref=rss",
		CreatedTime: &ts,
		UpdatedTime: &ts,
	})

	require.NoError(t, err)
	assert.Equal(t, "note1", id)
}

func TestCreateNote_AbsentTimestampsAreOmitted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotContains(t, payload, "user_created_time")
		assert.NotContains(t, payload, "user_updated_time")
		_, _ = w.Write([]byte(`{"id":"note1"}`))
	})

	_, err := client.CreateNote(context.Background(), domain.NewNote{NotebookID: "nb1", Title: "x"})

	require.NoError(t, err)
}

func TestCreateNote_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, err := New(Config{BaseURL: server.URL, Token: "tok", Timeout: 50 * time.Millisecond}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	_, err = client.CreateNote(context.Background(), domain.NewNote{Title: "slow"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
}

func TestCreateNote_RejectionIsNotTransport(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := client.CreateNote(context.Background(), domain.NewNote{Title: "x"})

	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrTransport))
}

func TestListNotebookNotes_FollowsPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/folders/nb1/notes", r.URL.Path)
		assert.Equal(t, "source_url,id", r.URL.Query().Get("fields"))
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"items":[{"id":"n1","source_url":"https://a/1"}],"has_more":true}`))
		case "2":
			_, _ = w.Write([]byte(`{"items":[{"id":"n2","source_url":"https://a/2"}],"has_more":false}`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	refs, err := client.ListNotebookNotes(context.Background(), "nb1", "source_url", "id")

	require.NoError(t, err)
	assert.Equal(t, []domain.NoteRef{
		{ID: "n1", SourceURL: "https://a/1"},
		{ID: "n2", SourceURL: "https://a/2"},
	}, refs)
}

func TestUpdateNoteBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notes/cfg", r.URL.Path)
		var payload updateNoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "{}", payload.Body)
		_, _ = w.Write([]byte(`{"id":"cfg"}`))
	})

	require.NoError(t, client.UpdateNoteBody(context.Background(), "cfg", "{}"))
}

func TestTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tags":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			_, _ = w.Write([]byte(`{"items":[{"id":"t1","title":"go"}],"has_more":false}`))
		case r.Method == http.MethodPost && r.URL.Path == "/tags":
			var payload createTagRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "rust", payload.Title)
			_, _ = w.Write([]byte(`{"id":"t2","title":"rust"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/tags/t2/notes":
			var payload assignTagRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "n1", payload.ID)
			_, _ = w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	tags, more, err := client.ListTags(ctx, 2)
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, []domain.Tag{{ID: "t1", Title: "go"}}, tags)

	tag, err := client.CreateTag(ctx, "rust")
	require.NoError(t, err)
	assert.Equal(t, domain.Tag{ID: "t2", Title: "rust"}, tag)

	require.NoError(t, client.AssignTag(ctx, "t2", "n1"))
}

func TestGetNotebook(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/folders/nb1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"nb1","title":"Blogs","parent_id":"","note_count":3}`))
	})

	nb, err := client.GetNotebook(context.Background(), "nb1")
	require.NoError(t, err)
	assert.Equal(t, &domain.Notebook{ID: "nb1", Title: "Blogs", NoteCount: 3}, nb)

	_, err = client.GetNotebook(context.Background(), "general")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetNotebook_NullIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	_, err := client.GetNotebook(context.Background(), "general")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestListNotebooks_BuildsTree(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/folders", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("as_tree"))
		_, _ = w.Write([]byte(`[
			{"id":"a","title":"work","parent_id":"","children":[
				{"id":"a1","title":"general","parent_id":"a"},
				{"id":"a2","title":"blogs","parent_id":"a","children":[]}
			]},
			{"id":"b","title":"home","parent_id":""}
		]`))
	})

	tree, err := client.ListNotebooks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, tree.Len())
	a, ok := tree.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"a1", "a2"}, a.Children)
	a2, _ := tree.Get("a2")
	assert.Empty(t, a2.Children)
	nb, ok := tree.FindByTitle("general")
	require.True(t, ok)
	assert.Equal(t, "a1", nb.ID)
}

func TestListNotebooks_Malformed(t *testing.T) {
	cases := map[string]string{
		"parent mismatch":     `[{"id":"a","parent_id":"","children":[{"id":"a1","parent_id":"zzz"}]}]`,
		"children not a list": `[{"id":"a","parent_id":"","children":{"id":"a1"}}]`,
		"missing id":          `[{"title":"x"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.ListNotebooks(context.Background())

			assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		})
	}
}
