package controllers

import (
	"io"
	"net/http"
	"strconv"

	catalogsvc "github.com/ZeroFairy/kuenyawz-api/internal/services/catalog"
	imagesvc "github.com/ZeroFairy/kuenyawz-api/internal/services/images"
)

// ProductsController handles catalog and product image endpoints.
type ProductsController struct {
	catalog *catalogsvc.Service
	images  *imagesvc.Service
}

// NewProductsController creates a new products controller.
func NewProductsController(catalog *catalogsvc.Service, images *imagesvc.Service) *ProductsController {
	return &ProductsController{catalog: catalog, images: images}
}

// RegisterRoutes registers catalog routes with the given mux.
func (c *ProductsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/products", c.handleCreate)
	mux.HandleFunc("GET /v1/products", c.handleList)
	mux.HandleFunc("POST /v1/products/import", c.handleImport)
	mux.HandleFunc("GET /v1/products/{id}", c.handleGet)
	mux.HandleFunc("PUT /v1/products/{id}", c.handleUpdate)
	mux.HandleFunc("DELETE /v1/products/{id}", c.handleDelete)

	mux.HandleFunc("POST /v1/products/{id}/images", c.handleUploadImage)
	mux.HandleFunc("GET /v1/products/{id}/images", c.handleListImages)
	mux.HandleFunc("GET /v1/products/{id}/images/{imageId}", c.handleGetImage)
	mux.HandleFunc("DELETE /v1/products/{id}/images/{imageId}", c.handleDeleteImage)
}

func (c *ProductsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	var in catalogsvc.CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := c.catalog.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, p)
}

func (c *ProductsController) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := c.catalog.List(r.Context(), catalogsvc.ListOptions{
		Category: q.Get("category"),
		Filter:   q.Get("filter"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, products)
}

// handleImport bulk-loads products from an uploaded delimiter-separated
// file. The file arrives either as multipart field "file" or as the raw
// request body.
func (c *ProductsController) handleImport(w http.ResponseWriter, r *http.Request) {
	var src io.Reader = r.Body
	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		src = f
	}
	report, err := c.catalog.ImportCSV(r.Context(), src)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, report)
}

func (c *ProductsController) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := c.catalog.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, p)
}

func (c *ProductsController) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var in catalogsvc.CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	p, err := c.catalog.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, p)
}

func (c *ProductsController) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := c.catalog.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}

func (c *ProductsController) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer f.Close()
	img, err := c.images.Save(r.Context(), id, hdr.Filename, f)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeCreated(w, img)
}

func (c *ProductsController) handleListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	imgs, err := c.images.List(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, imgs)
}

// handleGetImage streams the stored bytes.
func (c *ProductsController) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	imageID, ok := pathID(r, "imageId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}
	rc, img, err := c.images.Open(r.Context(), id, imageID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Length", strconv.FormatInt(img.SizeBytes, 10))
	_, _ = io.Copy(w, rc)
}

func (c *ProductsController) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	imageID, ok := pathID(r, "imageId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid image id")
		return
	}
	if err := c.images.Delete(r.Context(), id, imageID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeNoContent(w)
}
