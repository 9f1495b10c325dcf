package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gorilla/mux"
)

// registerSite adds the public EcoLife pages. They are static and do not
// consult the inventory.
func registerSite(r *mux.Router) {
	r.HandleFunc("/", home).Methods(http.MethodGet)
	r.HandleFunc("/usuario/{nombre}", welcomeUser).Methods(http.MethodGet)
	r.HandleFunc("/producto/{item}", productAvailability).Methods(http.MethodGet)
	r.HandleFunc("/servicio/{tipo}", recyclingService).Methods(http.MethodGet)
}

func home(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, `<h1>Bienvenido al Sistema EcoLife</h1><p>Plataforma de gestión de productos sostenibles y reciclaje.</p>`)
}

func welcomeUser(w http.ResponseWriter, r *http.Request) {
	name := html.EscapeString(mux.Vars(r)["nombre"])
	writeHTML(w, fmt.Sprintf(`<h1>Bienvenido, %s!</h1><p>Gracias por registrarte en EcoLife.</p>`, name))
}

func productAvailability(w http.ResponseWriter, r *http.Request) {
	item := html.EscapeString(mux.Vars(r)["item"])
	writeHTML(w, fmt.Sprintf(`<h3>Producto: %s – Disponible</h3><p>Este artículo se encuentra en stock en nuestra bodega sostenible.</p>`, item))
}

func recyclingService(w http.ResponseWriter, r *http.Request) {
	kind := html.EscapeString(mux.Vars(r)["tipo"])
	writeHTML(w, fmt.Sprintf("Servicio solicitado: Recolección de %s – En proceso.", kind))
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body)
}
