package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.maxBytesMw, s.loggingMw)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/user/register", s.userRegister()).Methods(http.MethodPost)
	api.HandleFunc("/user/login", s.userLogin()).Methods(http.MethodPost)

	itemAPI := api.PathPrefix("/item").Subrouter()
	itemAPI.Use(s.authMw)
	itemAPI.HandleFunc("/add", s.itemAdd()).Methods(http.MethodPost)
	itemAPI.HandleFunc("/update", s.itemUpdate()).Methods(http.MethodPost)
	itemAPI.HandleFunc("/remove", s.itemRemove()).Methods(http.MethodPost)
	itemAPI.HandleFunc("/lookup", s.itemLookup()).Methods(http.MethodGet)
	itemAPI.HandleFunc("/verify/{itemID}", s.itemVerify()).Methods(http.MethodPost)
	itemAPI.HandleFunc("/get/{itemID}", s.itemGetOne()).Methods(http.MethodGet)
	itemAPI.HandleFunc("/get", s.itemGetAll()).Methods(http.MethodGet)
	itemAPI.PathPrefix("").Handler(http.NotFoundHandler())

	historyAPI := api.PathPrefix("/history").Subrouter()
	historyAPI.Use(s.authMw)
	historyAPI.HandleFunc("/get", s.historyGet()).Methods(http.MethodPost)
	historyAPI.HandleFunc("/clear", s.historyClear()).Methods(http.MethodPost)
	historyAPI.PathPrefix("").Handler(http.NotFoundHandler())

	settingsAPI := api.PathPrefix("/settings").Subrouter()
	settingsAPI.Use(s.authMw)
	settingsAPI.HandleFunc("/get", s.settingsGet()).Methods(http.MethodGet)
	settingsAPI.HandleFunc("/update", s.settingsUpdate()).Methods(http.MethodPost)
	settingsAPI.PathPrefix("").Handler(http.NotFoundHandler())

	backupAPI := api.PathPrefix("/backup").Subrouter()
	backupAPI.Use(s.authMw)
	backupAPI.HandleFunc("/export", s.backupExport()).Methods(http.MethodGet)
	backupAPI.HandleFunc("/import", s.backupImport()).Methods(http.MethodPost)
	backupAPI.PathPrefix("").Handler(http.NotFoundHandler())

	return r
}
