package api

import (
	"net/http"

	"github.com/sebas/dialserver/internal/dial/xmlresp"
)

// writeError writes a bare status response. Per spec.md §7, every error
// response carries Connection: close — the core never retries or keeps
// the connection warm after a failure.
func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Connection", "close")
	w.WriteHeader(status)
}

func writeXML(w http.ResponseWriter, status int, origin string, svc xmlresp.Service) {
	w.Header().Set("Content-Type", xmlresp.ContentType)
	setCORSHeader(w, origin)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(xmlresp.Build(svc)))
}

func setCORSHeader(w http.ResponseWriter, admittedOrigin string) {
	if admittedOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", admittedOrigin)
	}
}
