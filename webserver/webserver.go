package webserver

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/cskr/pubsub"
	"github.com/dh1tw/hz/audio/nodes/meter"
	"github.com/dh1tw/hz/events"
	"github.com/dh1tw/hz/params"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

//go:embed html
var assets embed.FS

var upgrader = websocket.Upgrader{}

// Controller starts and stops the playback.
type Controller interface {
	Start()
	Stop()
	Playing() bool
}

// WebServer provides the REST API, the websocket and the web page to
// control the tone generator from a browser.
type WebServer struct {
	url            string
	apiVersion     string
	apiMatch       *regexp.Regexp
	router         *mux.Router
	server         *http.Server
	store          *params.Store
	ctl            Controller
	events         *pubsub.PubSub
	wsClients      map[*wsClient]bool // only accessed by the hub
	addWsClient    chan *wsClient
	removeWsClient chan *wsClient
	quit           chan struct{}
	quitOnce       sync.Once
	hubDone        chan struct{}
}

// NewWebServer returns a WebServer which will listen on host:port once
// Start is called. The websocket hub is started immediately.
func NewWebServer(host string, port int, store *params.Store, ctl Controller, evPS *pubsub.PubSub) (*WebServer, error) {

	url := net.JoinHostPort(host, strconv.Itoa(port))

	web := &WebServer{
		url:            url,
		apiVersion:     "1.0",
		apiMatch:       regexp.MustCompile(`api/v\d+\.\d+`),
		router:         mux.NewRouter().StrictSlash(true),
		store:          store,
		ctl:            ctl,
		events:         evPS,
		wsClients:      make(map[*wsClient]bool),
		addWsClient:    make(chan *wsClient),
		removeWsClient: make(chan *wsClient),
		quit:           make(chan struct{}),
		hubDone:        make(chan struct{}),
	}

	static, err := fs.Sub(assets, "html")
	if err != nil {
		return nil, err
	}

	web.routes()
	web.router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", noDirListing(http.FileServer(http.FS(static)))))
	web.router.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.ServeFileFS(w, req, static, "index.html")
	})

	web.server = &http.Server{
		Addr:    url,
		Handler: web.Handler(),
	}

	go web.hub()

	return web, nil
}

// Handler returns the http.Handler serving all routes.
func (web *WebServer) Handler() http.Handler {
	return web.apiRedirectRouter(web.router)
}

// Start listens on the configured address. It blocks until the server
// is shut down.
func (web *WebServer) Start() error {
	log.Printf("webserver listening on http://%s\n", web.url)
	err := web.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the websocket hub, disconnects all websocket clients and
// gracefully stops the http server.
func (web *WebServer) Shutdown(ctx context.Context) error {
	web.quitOnce.Do(func() { close(web.quit) })
	return web.server.Shutdown(ctx)
}

func noDirListing(h http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func (web *WebServer) getAppState() ApplicationState {

	snap := web.store.Snapshot()

	appState := ApplicationState{
		Tones:   make(map[string]ToneState, params.NumSources),
		Volume:  snap.Mix.Volume,
		Stereo:  snap.Mix.Mode == params.Stereo,
		Linked:  web.store.Linked(),
		Beat:    web.store.BeatFrequency(),
		Target:  web.store.TargetFrequency(),
		Playing: web.ctl.Playing(),
	}

	for _, t := range snap.Tones {
		appState.Tones[t.Source.String()] = ToneState{
			Frequency: t.Frequency,
			Position:  [3]float64(t.Position),
		}
	}

	return appState
}

// hub owns the websocket clients and forwards state changes to them. It
// returns when the WebServer or the event bus is shut down.
func (web *WebServer) hub() {
	defer func() {
		for c := range web.wsClients {
			delete(web.wsClients, c)
			close(c.send)
		}
		close(web.hubDone)
	}()

	stateCh := web.events.Sub(events.ParamsChanged, events.PlaybackOn)
	levelsCh := web.events.Sub(events.Levels)
	audibleCh := web.events.Sub(events.OutputAudible)

	for {
		select {
		case _, ok := <-stateCh:
			if !ok {
				return
			}
			web.updateWsClients()

		case ev, ok := <-levelsCh:
			if !ok {
				return
			}
			levels, ok := ev.(meter.Levels)
			if !ok {
				continue
			}
			data, err := json.Marshal(LevelsMsg{Levels: levels})
			if err != nil {
				log.Println(err)
				continue
			}
			for c := range web.wsClients {
				c.trySend(data)
			}

		case ev, ok := <-audibleCh:
			if !ok {
				return
			}
			audible, ok := ev.(bool)
			if !ok {
				continue
			}
			data, err := json.Marshal(AudibleMsg{Audible: audible})
			if err != nil {
				log.Println(err)
				continue
			}
			for c := range web.wsClients {
				c.trySend(data)
			}

		case c := <-web.addWsClient:
			web.wsClients[c] = true
			data, err := json.Marshal(web.getAppState())
			if err != nil {
				log.Println(err)
				continue
			}
			c.trySend(data)

		case c := <-web.removeWsClient:
			if _, ok := web.wsClients[c]; ok {
				delete(web.wsClients, c)
				close(c.send)
			}

		case <-web.quit:
			// the event bus must not block on our subscriptions
			for _, ch := range []chan interface{}{stateCh, levelsCh, audibleCh} {
				go web.events.Unsub(ch)
				for range ch {
				}
			}
			return
		}
	}
}

// updateWsClients sends the full application state to all websocket
// clients. Must only be called by the hub.
func (web *WebServer) updateWsClients() {
	data, err := json.Marshal(web.getAppState())
	if err != nil {
		log.Println(err)
		return
	}
	for c := range web.wsClients {
		c.trySend(data)
	}
}

func (web *WebServer) handleClientMsg(data []byte) {

	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Println("webserver: unable to unmarshal ClientMessage", string(data))
		return
	}

	if len(msg.Settings) > 0 {
		if err := web.store.Apply(msg.Settings); err != nil {
			log.Println("webserver:", err)
		}
	}

	if msg.Target != nil {
		beat := web.store.BeatFrequency()
		if msg.Beat != nil {
			beat = *msg.Beat
		}
		if err := web.store.AutoSetTones(*msg.Target, beat); err != nil {
			log.Println("webserver:", err)
		}
	}

	if msg.On != nil {
		if *msg.On {
			web.ctl.Start()
		} else {
			web.ctl.Stop()
		}
	}
}
