package api

import (
	"encoding/json"
	"html/template"
	"net/http"
)

const (
	docsPath     = "/docs"
	documentJSON = "/docs/openapi"
	documentYAML = "/docs/openapi.yaml"
)

// RegisterDocsRoutes mounts the API browser and the OpenAPI document.
// The root path redirects to the browser.
func RegisterDocsRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, docsPath, http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET "+docsPath, serveDocsPage)
	mux.HandleFunc("GET "+documentJSON, serveDocumentJSON)
	mux.HandleFunc("GET "+documentYAML, serveDocumentYAML)
}

func serveDocumentJSON(w http.ResponseWriter, _ *http.Request) {
	doc, err := GetSwagger()
	if err != nil {
		http.Error(w, "OpenAPI document unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		http.Error(w, "OpenAPI document unavailable", http.StatusInternalServerError)
	}
}

func serveDocumentYAML(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPIDocument) //nolint:errcheck // client went away
}

type docsPageData struct {
	Title       string
	DocumentURL string
}

func serveDocsPage(w http.ResponseWriter, _ *http.Request) {
	data := docsPageData{Title: "Retail Bank API", DocumentURL: documentJSON}
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		data.Title = doc.Info.Title
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := docsPage.Execute(w, data); err != nil {
		http.Error(w, "failed to render docs", http.StatusInternalServerError)
	}
}

var docsPage = template.Must(template.New("docs").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => SwaggerUIBundle({ url: '{{.DocumentURL}}', dom_id: '#swagger-ui' });
  </script>
</body>
</html>`))
