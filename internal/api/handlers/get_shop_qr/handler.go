package get_shop_qr

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

const (
	msgShopNotFound = "магазин не найден"

	defaultQRSize = 256
	minQRSize     = 128
	maxQRSize     = 1024
)

// qrPayload — содержимое QR-кода: мобильный клиент по нему открывает
// экран магазина со списком линий.
type qrPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Handler struct {
	shopClient ShopServiceClient
	logger     Logger
}

func NewHandler(shopClient ShopServiceClient, logger Logger) *Handler {
	return &Handler{
		shopClient: shopClient,
		logger:     logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/qr
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]

	// Шаг 1: проверяем, что магазин существует
	if _, err := h.shopClient.GetShop(r.Context(), shopID); err != nil {
		if errors.Is(err, shopservice.ErrShopNotFound) {
			h.logger.Warn("GET /shops/{id}/qr - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)
			return
		}
		h.logger.Error("GET /shops/{id}/qr - Failed to check shop: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	size := parseSize(r.URL.Query().Get("size"))

	// Шаг 2: кодируем payload в PNG
	payload, err := json.Marshal(qrPayload{Type: "shop", ID: shopID})
	if err != nil {
		h.logger.Error("GET /shops/{id}/qr - Failed to marshal payload: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, size)
	if err != nil {
		h.logger.Error("GET /shops/{id}/qr - Failed to encode QR: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/qr - QR generated: shop_id=%s, size=%d", shopID, size)

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func parseSize(raw string) int {
	if raw == "" {
		return defaultQRSize
	}
	size, err := strconv.Atoi(raw)
	if err != nil || size < minQRSize || size > maxQRSize {
		return defaultQRSize
	}
	return size
}
