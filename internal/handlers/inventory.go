package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/csemotors/dealer/internal/services"
	"github.com/csemotors/dealer/internal/storage"
	"github.com/csemotors/dealer/internal/store"
	"github.com/csemotors/dealer/internal/validation"
	"github.com/csemotors/dealer/internal/views"
	"github.com/csemotors/dealer/types"
)

const (
	msgNoVehicles            = "Sorry, no matching vehicles could be found."
	msgClassificationAdded   = "%s classification was added."
	msgClassificationFailed  = "Sorry, the classification could not be added."
	msgVehicleAdded          = "%s %s was added."
	msgVehicleFailed         = "Sorry, the vehicle could not be added."
	msgUploadNotImage        = "Please upload an image file."
	formFieldImageUpload     = "inv_image_file"
	titleInventoryManagement = "Inventory Management"
)

// InventoryHandler serves the public inventory pages and the inventory
// management pages.
type InventoryHandler struct {
	*Site
	inventory *services.InventoryService
	validator *validation.Validator
	images    *storage.Images
}

func NewInventoryHandler(site *Site, inventory *services.InventoryService, validator *validation.Validator, images *storage.Images) *InventoryHandler {
	return &InventoryHandler{Site: site, inventory: inventory, validator: validator, images: images}
}

// InventoryRouter registers inventory routes on the given router.
func InventoryRouter(r chi.Router, site *Site, inventory *services.InventoryService, validator *validation.Validator, images *storage.Images) {
	handler := NewInventoryHandler(site, inventory, validator, images)

	r.Get("/type/{classificationID}", handler.ByClassification)
	r.Get("/detail/{invID}", handler.Detail)

	r.Group(func(r chi.Router) {
		r.Use(site.RequireLogin, site.RequireRole(types.RoleEmployee, types.RoleAdmin))
		r.Get("/", handler.Management)
		r.Get("/add-classification", handler.AddClassificationView)
		r.Post("/add-classification", handler.AddClassification)
		r.Get("/add-inventory", handler.AddInventoryView)
		r.Post("/add-inventory", handler.AddInventory)
	})
}

func (h *InventoryHandler) ByClassification(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.inventory.VehiclesByClassification(r.Context(), parseID(chi.URLParam(r, "classificationID")))
	if err != nil {
		h.logger.Error("list vehicles", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	title := "Vehicles"
	if len(vehicles) > 0 && vehicles[0].ClassificationName != "" {
		title = vehicles[0].ClassificationName + " vehicles"
	}

	page := h.page(w, r, title)
	page.Data = vehicles
	h.render(w, r, http.StatusOK, views.ClassificationListing, page)
}

func (h *InventoryHandler) Detail(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.inventory.Vehicle(r.Context(), parseID(chi.URLParam(r, "invID")))
	if errors.Is(err, store.ErrNotFound) {
		page := h.page(w, r, "Vehicle Not Found")
		page.Data = (*types.Vehicle)(nil)
		h.render(w, r, http.StatusOK, views.VehicleDetail, page)
		return
	}
	if err != nil {
		h.logger.Error("load vehicle", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError)
		return
	}

	page := h.page(w, r, fmt.Sprintf("%s %s Details", vehicle.Make, vehicle.Model))
	page.Data = &vehicle
	h.render(w, r, http.StatusOK, views.VehicleDetail, page)
}

func (h *InventoryHandler) Management(w http.ResponseWriter, r *http.Request) {
	h.management(w, r, http.StatusOK)
}

func (h *InventoryHandler) AddClassificationView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, views.AddClassification, h.page(w, r, "Add Classification"))
}

func (h *InventoryHandler) AddClassification(w http.ResponseWriter, r *http.Request) {
	var form validation.ClassificationForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := h.validator.Classification(&form); errs.Any() {
		h.classificationForm(w, r, http.StatusBadRequest, errs)
		return
	}

	classification, err := h.inventory.AddClassification(r.Context(), form.Name)
	if err != nil {
		h.logger.Error("add classification", zap.String("name", form.Name), zap.Error(err))
		h.classificationForm(w, r, http.StatusInternalServerError, nil, msgClassificationFailed)
		return
	}

	h.management(w, r, http.StatusCreated, fmt.Sprintf(msgClassificationAdded, classification.Name))
}

func (h *InventoryHandler) AddInventoryView(w http.ResponseWriter, r *http.Request) {
	h.inventoryForm(w, r, http.StatusOK, nil, nil)
}

func (h *InventoryHandler) AddInventory(w http.ResponseWriter, r *http.Request) {
	var form validation.InventoryForm
	if err := decodeForm(r, &form); err != nil {
		h.renderError(w, r, http.StatusBadRequest)
		return
	}

	if errs := h.validator.Inventory(&form); errs.Any() {
		h.inventoryForm(w, r, http.StatusBadRequest, echo(r), errs)
		return
	}

	uploaded, err := h.upload(r, &form)
	if errors.Is(err, storage.ErrNotImage) {
		errs := validation.Errors{{Field: formFieldImageUpload, Message: msgUploadNotImage}}
		h.inventoryForm(w, r, http.StatusBadRequest, echo(r), errs)
		return
	}
	if err != nil {
		h.logger.Error("upload vehicle image", zap.Error(err))
		h.inventoryForm(w, r, http.StatusInternalServerError, echo(r), nil, msgVehicleFailed)
		return
	}

	vehicle, err := h.inventory.AddVehicle(r.Context(), form.Vehicle())
	if err != nil {
		h.discard(r, uploaded)
		h.logger.Error("add vehicle", zap.Error(err))
		h.inventoryForm(w, r, http.StatusInternalServerError, echo(r), nil, msgVehicleFailed)
		return
	}

	h.management(w, r, http.StatusCreated, fmt.Sprintf(msgVehicleAdded, vehicle.Make, vehicle.Model))
}

// upload stores an attached image and points the image and thumbnail
// fields at it. It returns the stored URL path, or "" when nothing was
// uploaded. Forms re-rendered afterwards echo the submitted paths, so a
// discarded upload never reaches the page.
func (h *InventoryHandler) upload(r *http.Request, form *validation.InventoryForm) (string, error) {
	if !h.images.Enabled() || r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile(formFieldImageUpload)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	urlPath, err := h.images.Upload(r.Context(), file, header.Size)
	if err != nil {
		return "", err
	}
	form.Image = urlPath
	form.Thumbnail = urlPath
	return urlPath, nil
}

func (h *InventoryHandler) discard(r *http.Request, urlPath string) {
	if urlPath == "" {
		return
	}
	if err := h.images.Remove(r.Context(), urlPath); err != nil {
		h.logger.Warn("remove vehicle image", zap.String("path", urlPath), zap.Error(err))
	}
}

func (h *InventoryHandler) management(w http.ResponseWriter, r *http.Request, status int, notices ...string) {
	page := h.page(w, r, titleInventoryManagement, notices...)
	analytics, err := h.inventory.Analytics(r.Context())
	if err != nil {
		h.logger.Error("inventory analytics", zap.Error(err))
	} else {
		page.Data = analytics
	}
	h.render(w, r, status, views.InventoryManagement, page)
}

func (h *InventoryHandler) classificationForm(w http.ResponseWriter, r *http.Request, status int, errs validation.Errors, notices ...string) {
	page := h.page(w, r, "Add Classification", notices...)
	page.Errors = errs
	page.Form = echo(r)
	h.render(w, r, status, views.AddClassification, page)
}

// inventoryForm renders the add vehicle form. Data reports whether image
// uploads are available.
func (h *InventoryHandler) inventoryForm(w http.ResponseWriter, r *http.Request, status int, values map[string]string, errs validation.Errors, notices ...string) {
	page := h.page(w, r, "Add Vehicle", notices...)
	page.Errors = errs
	page.Form = values
	page.Data = h.images.Enabled()
	h.render(w, r, status, views.AddInventory, page)
}
