package glance

import (
	"errors"
	"net/http"

	"github.com/getmockd/mimic/pkg/httputil"
)

type createImageRequest struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
}

type imageList struct {
	Images []Image `json:"images"`
	Schema string  `json:"schema"`
	First  string  `json:"first"`
}

func (r *region) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v2/{tenant}/images", r.handleListImages)
	mux.HandleFunc("POST /v2/{tenant}/images", r.handleCreateImage)
	mux.HandleFunc("GET /v2/{tenant}/images/{id}", r.handleGetImage)
	mux.HandleFunc("DELETE /v2/{tenant}/images/{id}", r.handleDeleteImage)
	return mux
}

func (r *region) handleListImages(w http.ResponseWriter, req *http.Request) {
	store, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	images := store.list()
	tenant := req.PathValue("tenant")
	for i := range images {
		images[i].Self = r.url("v2/" + tenant + "/images/" + images[i].ID)
	}
	httputil.WriteOK(w, imageList{
		Images: images,
		Schema: "/v2/schemas/images",
		First:  "/v2/images",
	})
}

func (r *region) handleCreateImage(w http.ResponseWriter, req *http.Request) {
	var body createImageRequest
	if err := httputil.DecodeJSON(req, &body); err != nil && !errors.Is(err, httputil.ErrEmptyBody) {
		httputil.WriteBadRequest(w, "invalid_body", err.Error())
		return
	}
	if body.Name == "" {
		httputil.WriteBadRequest(w, "missing_name", "image name is required")
		return
	}

	store, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	img := store.create(body.Name, body.Tags)
	img.Self = r.url("v2/" + req.PathValue("tenant") + "/images/" + img.ID)
	w.Header().Set("Location", img.Self)
	httputil.WriteCreated(w, img)
}

func (r *region) handleGetImage(w http.ResponseWriter, req *http.Request) {
	store, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	img, found := store.get(req.PathValue("id"))
	if !found {
		httputil.WriteNotFound(w, "image_not_found", "no image with id "+req.PathValue("id"))
		return
	}
	img.Self = r.url("v2/" + req.PathValue("tenant") + "/images/" + img.ID)
	httputil.WriteOK(w, img)
}

func (r *region) handleDeleteImage(w http.ResponseWriter, req *http.Request) {
	store, ok := r.storeFor(w, req)
	if !ok {
		return
	}
	found, protected := store.remove(req.PathValue("id"))
	switch {
	case !found:
		httputil.WriteNotFound(w, "image_not_found", "no image with id "+req.PathValue("id"))
	case protected:
		httputil.WriteForbidden(w, "image_protected", "image is protected and cannot be deleted")
	default:
		httputil.WriteNoContent(w)
	}
}

// storeFor resolves the tenant's image store, writing a 500 on failure.
func (r *region) storeFor(w http.ResponseWriter, req *http.Request) (*imageStore, bool) {
	store, err := r.imagesFor(req.PathValue("tenant"))
	if err != nil {
		httputil.WriteInternalError(w, "resource_unavailable", err.Error())
		return nil, false
	}
	return store, true
}
