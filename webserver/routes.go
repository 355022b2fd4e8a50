package webserver

func (web *WebServer) routes() {
	web.router.HandleFunc("/api/v1.0/tone/{source}/frequency", web.frequencyHdlr)
	web.router.HandleFunc("/api/v1.0/tone/{source}/position", web.positionHdlr)
	web.router.HandleFunc("/api/v1.0/volume", web.volumeHdlr)
	web.router.HandleFunc("/api/v1.0/mode", web.modeHdlr)
	web.router.HandleFunc("/api/v1.0/linked", web.linkedHdlr)
	web.router.HandleFunc("/api/v1.0/beat", web.beatHdlr).Methods("GET")
	web.router.HandleFunc("/api/v1.0/target", web.targetHdlr)
	web.router.HandleFunc("/api/v1.0/autoset", web.autoSetHdlr).Methods("PUT")
	web.router.HandleFunc("/api/v1.0/state", web.stateHdlr)
	web.router.HandleFunc("/api/v1.0/settings", web.settingsHdlr)
	web.router.HandleFunc("/ws", web.webSocketHdlr)
}
