package controller

import (
	"errors"
	"strconv"

	"contract-review-fe/internal/constant"
	"contract-review-fe/internal/dto"
	"contract-review-fe/internal/pkg/serverutils"
	"contract-review-fe/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	ShowSession(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
	Analyze(ctx *fiber.Ctx) error
	SelectClause(ctx *fiber.Ctx) error
	CloseClause(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
	EmailExport(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	DismissNotification(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
}

type reviewController struct {
	reviewService service.IReviewService
}

func NewReviewController(reviewService service.IReviewService) IReviewController {
	return &reviewController{
		reviewService: reviewService,
	}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1")
	h.Get("session", c.ShowSession)
	h.Post("session/upload", c.Upload)
	h.Post("session/analyze", c.Analyze)
	h.Put("session/clause/:index", c.SelectClause)
	h.Delete("session/clause", c.CloseClause)
	h.Get("session/export", c.Export)
	h.Post("session/export/email", c.EmailExport)
	h.Delete("session", c.Reset)
	h.Delete("notifications/:id", c.DismissNotification)
	h.Get("search", c.Search)
	h.Post("classify", c.Classify)
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, ok := serverutils.SessionID(ctx)
	if !ok {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Missing session")
	}
	return id, nil
}

func (c *reviewController) ShowSession(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res := c.reviewService.State(sid)
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *reviewController) Upload(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing file field")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Unreadable upload")
	}
	defer f.Close()

	res, err := c.reviewService.Upload(ctx.Context(), sid, fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document uploaded", res))
}

func (c *reviewController) Analyze(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res, err := c.reviewService.Analyze(ctx.Context(), sid)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Analysis completed", res))
}

func (c *reviewController) SelectClause(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	// Marker values originate in backend-generated HTML; anything that is
	// not a valid index is tolerated as a no-op rather than rejected.
	index, convErr := strconv.Atoi(ctx.Params("index"))
	if convErr != nil {
		index = -1
	}

	res := c.reviewService.SelectClause(sid, index)
	return ctx.JSON(serverutils.SuccessResponse("Success select clause", res))
}

func (c *reviewController) CloseClause(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res := c.reviewService.CloseClause(sid)
	return ctx.JSON(serverutils.SuccessResponse("Success close clause detail", res))
}

func (c *reviewController) Export(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	filename, payload, err := c.reviewService.Export(sid)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return ctx.Send(payload)
}

func (c *reviewController) EmailExport(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	var req dto.EmailExportRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.reviewService.EmailExport(sid, req.To); err != nil {
		if errors.Is(err, service.ErrMailNotConfigured) {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Export artifact emailed", nil))
}

func (c *reviewController) Reset(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	res := c.reviewService.Reset(sid)
	return ctx.JSON(serverutils.SuccessResponse("Session reset", res))
}

func (c *reviewController) DismissNotification(ctx *fiber.Ctx) error {
	sid, err := sessionID(ctx)
	if err != nil {
		return err
	}

	dismissed := c.reviewService.DismissNotification(sid, ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse("Success dismiss notification", fiber.Map{
		"dismissed": dismissed,
	}))
}

func (c *reviewController) Search(ctx *fiber.Ctx) error {
	query := ctx.Query("query", "")
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Search query cannot be empty")
	}
	limit := ctx.QueryInt("limit", constant.DefaultSearchLimit)

	res, err := c.reviewService.Search(ctx.Context(), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search clauses", res))
}

func (c *reviewController) Classify(ctx *fiber.Ctx) error {
	var req dto.ClassifyTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.reviewService.ClassifyText(ctx.Context(), req.Text)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success classify text", res))
}
