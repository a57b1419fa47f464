package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/game2048/internal/factory"
	"github.com/mcoot/game2048/internal/model"
	"github.com/mcoot/game2048/internal/testutil"
	"github.com/mcoot/game2048/internal/web"
	"github.com/mcoot/game2048/internal/web/sse"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	hubs    *sse.HubManager
	cookies *cookieJar
}

// newWebTestServer creates a new test server with mocked randomness, so every
// new game starts with two 2s in the top-left corner
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()

	logger := testutil.NopLogger()
	app := factory.NewTestApp()
	hubs := sse.NewHubManager(logger)
	t.Cleanup(hubs.Close)

	router := web.NewRouter(web.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		HubManager:     hubs,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		hubs:    hubs,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil, false)
}

// post makes a POST request with form data (non-HTMX)
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, false)
}

// postHTMX makes a POST request with form data as an HTMX request
func (ts *webTestServer) postHTMX(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form, true)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasPlayToken returns true if the play token cookie is set
func (j *cookieJar) hasPlayToken() bool {
	_, ok := j.cookies["play_token"]
	return ok
}

// Helper functions for common test operations

// startGame starts a game and returns its ID
func (ts *webTestServer) startGame() string {
	ts.t.Helper()
	rr := ts.post("/play", nil)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after starting a game")
	require.True(ts.t, ts.cookies.hasPlayToken(), "Expected play token cookie to be set")

	location := rr.Header().Get("Location")
	parts := strings.Split(location, "/play/")
	require.Len(ts.t, parts, 2, "Expected location to contain /play/{id}")
	return parts[1]
}

// pressKey posts a key code to the game
func (ts *webTestServer) pressKey(gameID, code string) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.post("/play/"+gameID+"/key", url.Values{"code": {code}})
}

// playPage loads the board page
func (ts *webTestServer) playPage(gameID string) *goquery.Document {
	ts.t.Helper()
	rr := ts.get("/play/" + gameID)
	require.Equal(ts.t, http.StatusOK, rr.Code)
	return parseHTML(rr.Body)
}

// editGame changes stored game state directly
func (ts *webTestServer) editGame(gameID string, fn func(g *model.Game)) {
	ts.t.Helper()
	g, err := ts.app.Storage.GetGame(ts.t.Context(), model.GameID(gameID))
	require.NoError(ts.t, err)
	fn(g)
	require.NoError(ts.t, ts.app.Storage.SaveGame(ts.t.Context(), g))
}

// followRedirect follows a redirect and returns the response
// Works with both traditional Location headers and HTMX HX-Redirect headers
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	// Check for HTMX redirect first
	location := rr.Header().Get("HX-Redirect")
	if location == "" {
		// Fall back to traditional redirect
		location = rr.Header().Get("Location")
	}
	require.NotEmpty(ts.t, location, "Expected Location or HX-Redirect header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
