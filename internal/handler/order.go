package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ordertrack/internal/model"
	"ordertrack/internal/service"
)

type orderRequest struct {
	ClientID     string `json:"client_id" validate:"required"`
	Summary      string `json:"summary" validate:"required,max=100"`
	Details      string `json:"details"`
	SaleValue    *int64 `json:"sale_value" validate:"required,gte=0"`
	AmountPaid   int64  `json:"amount_paid" validate:"gte=0"`
	DeliveryDate string `json:"delivery_date" validate:"required,datetime=2006-01-02"`
	ImageRef     string `json:"image_ref" validate:"max=255"`
	Status       string `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS DONE"`
}

func (req orderRequest) input() (service.OrderInput, error) {
	due, err := model.ParseDate(req.DeliveryDate)
	if err != nil {
		return service.OrderInput{}, err
	}
	return service.OrderInput{
		ClientID:     req.ClientID,
		Summary:      req.Summary,
		Details:      req.Details,
		SaleValue:    *req.SaleValue,
		AmountPaid:   req.AmountPaid,
		DeliveryDate: due,
		ImageRef:     req.ImageRef,
		Status:       model.Status(req.Status),
	}, nil
}

func readOrder(w http.ResponseWriter, r *http.Request) (service.OrderInput, bool) {
	var req orderRequest
	if err := decode(w, r, &req); err != nil {
		writeDecodeError(w, err)
		return service.OrderInput{}, false
	}
	in, err := req.input()
	if err != nil {
		http.Error(w, "delivery_date: failed datetime", http.StatusUnprocessableEntity)
		return service.OrderInput{}, false
	}
	return in, true
}

// writeOrderWriteError treats an unknown client in the body as invalid input.
func writeOrderWriteError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrClientNotFound) {
		http.Error(w, "client_id: unknown client", http.StatusUnprocessableEntity)
		return
	}
	writeError(w, r, err)
}

func listParams(r *http.Request) service.ListParams {
	q := r.URL.Query()
	return service.ListParams{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Page:   q.Get("page"),
	}
}

func ListOrdersHandler(querySvc *service.QueryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := querySvc.List(r.Context(), listParams(r))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func CreateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := readOrder(w, r)
		if !ok {
			return
		}
		o, err := orderSvc.Create(r.Context(), in)
		if err != nil {
			writeOrderWriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, o)
	}
}

func GetOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := orderSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func UpdateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := readOrder(w, r)
		if !ok {
			return
		}
		o, err := orderSvc.Update(r.Context(), chi.URLParam(r, "id"), in)
		if err != nil {
			writeOrderWriteError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, o)
	}
}

func DeleteOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orderSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type transitionResponse struct {
	Order   model.Order `json:"order"`
	Applied bool        `json:"applied"`
}

// TransitionOrderHandler answers 200 even for an unknown status label;
// "applied": false tells the caller nothing changed.
func TransitionOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, applied, err := orderSvc.Transition(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "status"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, transitionResponse{Order: o, Applied: applied})
	}
}

func DuplicateOrderHandler(orderSvc *service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := orderSvc.Duplicate(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, o)
	}
}
