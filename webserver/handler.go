package webserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/dh1tw/hz/params"
	"github.com/gorilla/mux"
)

func writeError(w http.ResponseWriter, code int, text string) {
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf("%d - %s", code, text)))
}

func writeJSON(w http.ResponseWriter, msg interface{}) {
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Println(err)
		writeError(w, http.StatusInternalServerError, "unable to encode msg")
	}
}

func (web *WebServer) webSocketHdlr(w http.ResponseWriter, req *http.Request) {

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("unable to open ws for %v\n", req.RemoteAddr)
		return
	}

	wsClient := &wsClient{
		ws:           conn,
		send:         make(chan []byte, wsSendBufferSize),
		removeClient: web.removeWsClient,
		hubDone:      web.hubDone,
		handleMsg:    web.handleClientMsg,
	}

	select {
	case web.addWsClient <- wsClient:
	case <-web.hubDone:
		conn.Close()
		return
	}

	go wsClient.write()
	go wsClient.read()
}

// source returns the tone source addressed by the {source} path variable.
func source(w http.ResponseWriter, req *http.Request) (params.Source, bool) {
	name := mux.Vars(req)["source"]
	src, err := params.ParseSource(name)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unable to find tone %s", name))
		return 0, false
	}
	return src, true
}

func (web *WebServer) frequencyHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	src, ok := source(w, req)
	if !ok {
		return
	}

	switch req.Method {
	case "GET":
		f := web.store.Frequency(src)
		writeJSON(w, &FrequencyMsg{Frequency: &f})

	case "PUT":
		var freqMsg FrequencyMsg
		if err := json.NewDecoder(req.Body).Decode(&freqMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if freqMsg.Frequency == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		if err := web.store.SetFrequency(src, *freqMsg.Frequency); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) positionHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	src, ok := source(w, req)
	if !ok {
		return
	}

	switch req.Method {
	case "GET":
		pos := web.store.Position(src)
		writeJSON(w, &PositionMsg{Position: pos[:]})

	case "PUT":
		var posMsg PositionMsg
		if err := json.NewDecoder(req.Body).Decode(&posMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if len(posMsg.Position) != 3 {
			writeError(w, http.StatusBadRequest, "position must contain 3 values")
			return
		}
		pos := params.Position{posMsg.Position[0], posMsg.Position[1], posMsg.Position[2]}
		if err := web.store.SetPosition(src, pos); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) volumeHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		vol := web.store.Volume()
		writeJSON(w, &VolumeMsg{Volume: &vol})

	case "PUT":
		var volMsg VolumeMsg
		if err := json.NewDecoder(req.Body).Decode(&volMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if volMsg.Volume == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		if err := params.ValidVolume(*volMsg.Volume); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		web.store.SetVolume(*volMsg.Volume)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) modeHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		stereo := web.store.Mode() == params.Stereo
		writeJSON(w, &ModeMsg{Stereo: &stereo})

	case "PUT":
		var modeMsg ModeMsg
		if err := json.NewDecoder(req.Body).Decode(&modeMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if modeMsg.Stereo == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		if *modeMsg.Stereo {
			web.store.SetMode(params.Stereo)
		} else {
			web.store.SetMode(params.Mono)
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) linkedHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		linked := web.store.Linked()
		writeJSON(w, &LinkedMsg{Linked: &linked})

	case "PUT":
		var linkedMsg LinkedMsg
		if err := json.NewDecoder(req.Body).Decode(&linkedMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if linkedMsg.Linked == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		web.store.SetLinked(*linkedMsg.Linked)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) beatHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	writeJSON(w, &BeatMsg{Beat: web.store.BeatFrequency()})
}

func (web *WebServer) targetHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		target := web.store.TargetFrequency()
		writeJSON(w, &TargetMsg{Target: &target})

	case "PUT":
		var targetMsg TargetMsg
		if err := json.NewDecoder(req.Body).Decode(&targetMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if targetMsg.Target == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		if err := web.store.SetTargetFrequency(*targetMsg.Target); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) autoSetHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	var autoSetMsg AutoSetMsg
	if err := json.NewDecoder(req.Body).Decode(&autoSetMsg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if autoSetMsg.Target == nil {
		writeError(w, http.StatusBadRequest, "invalid Request")
		return
	}

	beat := web.store.BeatFrequency()
	if autoSetMsg.Beat != nil {
		beat = *autoSetMsg.Beat
	}

	if err := web.store.AutoSetTones(*autoSetMsg.Target, beat); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (web *WebServer) stateHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		on := web.ctl.Playing()
		writeJSON(w, &StateMsg{On: &on})

	case "PUT":
		var stateMsg StateMsg
		if err := json.NewDecoder(req.Body).Decode(&stateMsg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON")
			return
		}
		if stateMsg.On == nil {
			writeError(w, http.StatusBadRequest, "invalid Request")
			return
		}
		if *stateMsg.On {
			web.ctl.Start()
		} else {
			web.ctl.Stop()
		}

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (web *WebServer) settingsHdlr(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")

	switch req.Method {
	case "GET":
		writeJSON(w, web.store.Export())

	case "PUT":
		data, err := io.ReadAll(req.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unable to read body")
			return
		}
		err = web.store.Apply(data)
		if err == nil {
			return
		}
		var applyErr *params.ApplyError
		if errors.As(err, &applyErr) {
			// the valid fields have been applied
			writeError(w, http.StatusBadRequest, applyErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON")

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
