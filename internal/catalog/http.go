package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/suzaneaduarte/DesafioTecnicoProdutosDigitais/pkg/kit"
)

const maxBodyBytes = 1 << 20

type Server struct {
	Store Store
	Query *QueryEngine
	Log   *zap.Logger
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.listProducts)
		r.Post("/products", s.createProduct)
		r.Get("/brands", s.listBrands)
	})

	return r
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	res, err := s.Query.Query(r.Context(), ParamsFromRequest(r))
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list products failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) listBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.Store.ListBrands(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list brands failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, brands)
}

// Price is a pointer so a missing field is distinguishable from an
// explicit zero; only missing and negative prices are rejected.
type createProductReq struct {
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description"`
	Image       string           `json:"image"`
	BrandID     string           `json:"brandId"`
}

type createProductResp struct {
	Message string        `json:"message"`
	Product JoinedProduct `json:"product"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.BrandID = strings.TrimSpace(req.BrandID)

	if req.Name == "" || req.BrandID == "" || req.Price == nil {
		kit.WriteError(w, r, http.StatusBadRequest, "name, price and brandId are required", nil)
		return
	}
	if req.Price.IsNegative() {
		kit.WriteError(w, r, http.StatusBadRequest, "price must not be negative", nil)
		return
	}

	created, err := s.Store.InsertProduct(r.Context(), Product{
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Image:       req.Image,
		BrandID:     req.BrandID,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateProduct) {
			kit.WriteError(w, r, http.StatusConflict, err.Error(), nil)
			return
		}
		if s.Log != nil {
			s.Log.Error("insert product failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusCreated, createProductResp{
		Message: "product created",
		Product: s.resolveBrand(r.Context(), created),
	})
}

func decodeCreateRequest(w http.ResponseWriter, r *http.Request) (createProductReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)

	var req createProductReq
	if err := dec.Decode(&req); err != nil {
		return createProductReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return createProductReq{}, errors.New("extra data after json object")
	}

	return req, nil
}

// resolveBrand attaches the brand to a freshly created product for the
// response body. A lookup failure just leaves the brand absent.
func (s *Server) resolveBrand(ctx context.Context, p Product) JoinedProduct {
	jp := JoinedProduct{Product: p}

	brands, err := s.Store.ListBrands(ctx)
	if err != nil {
		return jp
	}
	for _, b := range brands {
		if b.ID == p.BrandID {
			jp.Brand = &b
			break
		}
	}
	return jp
}
