package v1

import (
	"time"

	"github.com/Behyna/gem-services/internal/api/contract"
	"github.com/Behyna/gem-services/internal/api/middleware"
	"github.com/Behyna/gem-services/internal/api/validator"
	"github.com/Behyna/gem-services/internal/constants"
	"github.com/Behyna/gem-services/internal/metrics"
	"github.com/Behyna/gem-services/internal/model"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type Handler struct {
	logger         *zap.Logger
	ledger         service.LedgerService
	accounts       service.AccountService
	catalog        service.CatalogService
	conversion     service.ConversionService
	purchase       service.PurchaseService
	redemption     service.RedemptionService
	reconciliation service.ReconciliationService
	admin          service.AdminService
	XValidator     validator.IXValidator
	metrics        *metrics.Metrics
}

func NewHandler(logger *zap.Logger, ledger service.LedgerService, accounts service.AccountService,
	catalog service.CatalogService, conversion service.ConversionService, purchase service.PurchaseService,
	redemption service.RedemptionService, reconciliation service.ReconciliationService, admin service.AdminService,
	XValidator validator.IXValidator, metrics *metrics.Metrics) *Handler {

	return &Handler{
		logger:         logger,
		ledger:         ledger,
		accounts:       accounts,
		catalog:        catalog,
		conversion:     conversion,
		purchase:       purchase,
		redemption:     redemption,
		reconciliation: reconciliation,
		admin:          admin,
		XValidator:     XValidator,
		metrics:        metrics,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) GetCatalog(c *fiber.Ctx) error {
	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgCatalogRetrieved, h.catalog.Catalog()))
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	balance, err := h.accounts.Balance(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgBalanceRetrieved, balance))
}

func (h *Handler) GetHistory(c *fiber.Ctx) error {
	var handlerRequest HistoryRequest
	if responseError, ok := h.validate(c, "history", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	history, err := h.ledger.History(c.UserContext(), service.HistoryQuery{
		UserID: middleware.UserID(c),
		Limit:  handlerRequest.Limit,
		Cursor: handlerRequest.Cursor,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgHistoryRetrieved, history))
}

func (h *Handler) Convert(c *fiber.Ctx) error {
	start := time.Now()

	var handlerRequest ConvertRequest
	if responseError, ok := h.validate(c, "convert", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	cmd := service.ConvertCommand{
		UserID:         middleware.UserID(c),
		Points:         handlerRequest.Points,
		IdempotencyKey: idempotencyKey(c, handlerRequest.IdempotencyKey),
	}

	result, err := h.conversion.Convert(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Points converted",
		zap.String("userID", cmd.UserID),
		zap.Int64("gems", result.GemsEarned),
		zap.Bool("replayed", result.Replayed),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgPointsConverted, result))
}

func (h *Handler) Purchase(c *fiber.Ctx) error {
	start := time.Now()

	var handlerRequest PurchaseRequest
	if responseError, ok := h.validate(c, "purchase", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	cmd := service.PurchaseCommand{
		UserID:         middleware.UserID(c),
		Category:       handlerRequest.Category,
		ItemID:         handlerRequest.ItemID,
		CustomValue:    handlerRequest.CustomValue,
		IdempotencyKey: idempotencyKey(c, handlerRequest.IdempotencyKey),
	}

	result, err := h.purchase.Purchase(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Item purchased",
		zap.String("userID", cmd.UserID),
		zap.String("category", cmd.Category),
		zap.String("itemID", cmd.ItemID),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgItemPurchased, result))
}

func (h *Handler) GetOwnedItems(c *fiber.Ctx) error {
	items, err := h.purchase.OwnedItems(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgOwnedItemsRetrieved, items))
}

func (h *Handler) ActivateOffer(c *fiber.Ctx) error {
	var handlerRequest OfferRequest
	if responseError, ok := h.validate(c, "activate_offer", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	result, err := h.redemption.ActivateOffer(c.UserContext(), service.ActivateOfferCommand{
		UserID:    middleware.UserID(c),
		PartnerID: handlerRequest.PartnerID,
		OfferType: handlerRequest.OfferType,
	})
	if err != nil {
		return err
	}

	message := constants.MsgOfferActivated
	switch {
	case result.AlreadyActivated:
		message = constants.MsgOfferAlreadyActivated
	case result.Justification != nil && result.Justification.Status == string(model.JustificationStatusPending):
		message = constants.MsgJustificationPending
	}

	return c.JSON(contract.Success(middleware.TrackID(c), message, result))
}

func (h *Handler) RegenerateJustification(c *fiber.Ctx) error {
	var handlerRequest OfferRequest
	if responseError, ok := h.validate(c, "regenerate_justification", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	view, err := h.redemption.RegenerateJustification(c.UserContext(), service.RegenerateJustificationCommand{
		UserID:    middleware.UserID(c),
		PartnerID: handlerRequest.PartnerID,
		OfferType: handlerRequest.OfferType,
	})
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgJustificationIssued, view))
}

func (h *Handler) GetActivatedOffers(c *fiber.Ctx) error {
	offers, err := h.redemption.ActivatedOffers(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgActivatedOffersListed, offers))
}

func (h *Handler) ReconcileOffers(c *fiber.Ctx) error {
	var handlerRequest ReconcileRequest
	if responseError, ok := h.validate(c, "reconcile_offers", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	local := make([]service.OfferKey, 0, len(handlerRequest.Local))
	for _, key := range handlerRequest.Local {
		local = append(local, service.OfferKey{PartnerID: key.PartnerID, OfferType: key.OfferType})
	}

	result, err := h.reconciliation.ReconcileForUser(c.UserContext(), middleware.UserID(c), local)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgOffersReconciled, result))
}

func (h *Handler) AdjustBalance(c *fiber.Ctx) error {
	var handlerRequest AdjustBalanceRequest
	if responseError, ok := h.validate(c, "adjust_balance", &handlerRequest); !ok {
		return c.JSON(responseError)
	}

	cmd := service.AdjustBalanceCommand{
		UserID:  handlerRequest.UserID,
		Amount:  handlerRequest.Amount,
		Type:    model.TxType(handlerRequest.Type),
		Reason:  handlerRequest.Reason,
		ActorID: middleware.UserID(c),
	}

	tx, err := h.admin.AdjustBalance(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	h.logger.Info("Balance adjusted",
		zap.String("userID", cmd.UserID),
		zap.String("actorID", cmd.ActorID),
		zap.String("type", handlerRequest.Type),
		zap.Int64("amount", cmd.Amount),
	)

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgBalanceAdjusted, tx))
}

func (h *Handler) Audit(c *fiber.Ctx) error {
	handlerRequest := AuditRequest{UserID: c.Params("userID")}
	if errs := h.XValidator.Validate(&handlerRequest); len(errs) > 0 {
		h.metrics.RecordValidationError("user_id", errs[0].Tag)
		return service.NewServiceError(constants.ErrCodeValidationFailed, service.ErrInvalidUser)
	}

	report, err := h.admin.Audit(c.UserContext(), handlerRequest.UserID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success(middleware.TrackID(c), constants.MsgAuditCompleted, report))
}

func (h *Handler) validate(c *fiber.Ctx, endpoint string, request any) (contract.Response, bool) {
	validationStart := time.Now()
	responseError := h.XValidator.Validator(request, constants.MessageErrorFormat, c)
	h.metrics.RecordValidationDuration(endpoint, time.Since(validationStart))

	if responseError.Code == "" {
		return responseError, true
	}

	h.logger.Warn("Error Validator", zap.String("endpoint", endpoint), zap.String("message", responseError.Message))
	responseError.Code = constants.ErrCodeValidationFailed
	responseError.TrackID = middleware.TrackID(c)
	return responseError, false
}

// idempotencyKey prefers the Idempotency-Key header over the body field.
func idempotencyKey(c *fiber.Ctx, fromBody string) string {
	if key := c.Get(HeaderIdempotencyKey); key != "" {
		return key
	}
	return fromBody
}
