package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"flashcards/internal/i18n"
	"flashcards/internal/middleware"
	"flashcards/internal/repository"
	"flashcards/internal/service"
	"flashcards/internal/speech"
	"flashcards/internal/testutil"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

const testChatID = 42

type botAPICall struct {
	method string
	params map[string]any
}

// fakeBotAPI stands in for the Telegram Bot API. Methods listed in failing
// are answered with a 400 carrying the given description.
type fakeBotAPI struct {
	mu      sync.Mutex
	calls   []botAPICall
	failing map[string]string
	lastID  int
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)

	params := map[string]any{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			for k, v := range r.MultipartForm.Value {
				params[k] = v[0]
			}
		}
	} else {
		json.NewDecoder(r.Body).Decode(&params)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, botAPICall{method: method, params: params})

	w.Header().Set("Content-Type", "application/json")
	if desc, ok := f.failing[method]; ok {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, `{"ok":false,"error_code":400,"description":%q}`, desc)
		return
	}

	switch method {
	case "answerCallbackQuery":
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	case "sendPhoto":
		f.lastID++
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"},`+
			`"photo":[{"file_id":"photo-%d","file_unique_id":"u-%d","width":320,"height":320}]}}`,
			f.lastID, testChatID, f.lastID, f.lastID)
	default:
		f.lastID++
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%d,"type":"private"}}}`,
			f.lastID, testChatID)
	}
}

// callsTo returns the requests made for method, in order
func (f *fakeBotAPI) callsTo(method string) []botAPICall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls []botAPICall
	for _, call := range f.calls {
		if call.method == method {
			calls = append(calls, call)
		}
	}
	return calls
}

func (c botAPICall) param(key string) string {
	if v, ok := c.params[key]; ok {
		return fmt.Sprint(v)
	}
	return ""
}

type apiHandler struct {
	*Handler
	api *fakeBotAPI
}

// newAPIHandler wires a handler to a fake Bot API. The first message the
// API accepts gets ID 99.
func newAPIHandler(t *testing.T, ctx context.Context, source repository.WordSource, speaker *speech.Speaker, failing map[string]string) *apiHandler {
	t.Helper()

	api := &fakeBotAPI{failing: failing, lastID: 98}
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	bot, err := tele.NewBot(tele.Settings{Token: "test-token", URL: ts.URL, Offline: true})
	require.NoError(t, err)

	logger := testutil.NewTestLogger()
	sessions := service.NewSessionStore(source, service.NewImageResolver(""), logger)
	translator := i18n.NewTranslator("ru", logger)

	return &apiHandler{
		Handler: NewHandler(ctx, bot, sessions, speaker, translator, logger),
		api:     api,
	}
}

// run dispatches upd to fn behind the session middleware, like the bot does
func (h *apiHandler) run(upd tele.Update, fn tele.HandlerFunc) error {
	c := h.bot.NewContext(upd)
	return middleware.SessionMiddleware(h.sessions, h.logger)(fn)(c)
}

func (h *apiHandler) session() *service.Session {
	return h.sessions.Get(context.Background(), testChatID)
}

func commandUpdate(text string, sender *tele.User) tele.Update {
	return tele.Update{
		Message: &tele.Message{
			ID:     1,
			Sender: sender,
			Chat:   &tele.Chat{ID: testChatID, Type: tele.ChatPrivate},
			Text:   text,
		},
	}
}

func buttonUpdate(unique string, messageID int) tele.Update {
	return tele.Update{
		Callback: &tele.Callback{
			ID:     "cb-" + unique,
			Unique: unique,
			Sender: &tele.User{ID: testChatID},
			Message: &tele.Message{
				ID:   messageID,
				Chat: &tele.Chat{ID: testChatID, Type: tele.ChatPrivate},
			},
		},
	}
}
