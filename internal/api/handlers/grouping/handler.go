package grouping

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"catalogdedup/internal/api/handlers/common"
	groupingapp "catalogdedup/internal/application/grouping"
	groupingdomain "catalogdedup/internal/domain/grouping"
	"catalogdedup/internal/domain/ingestion"
	apperrors "catalogdedup/server/errors"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
	defaultItemLimit = 20
)

// Handler HTTP обработчик загрузки файлов и работы с группами
type Handler struct {
	baseHandler    common.BaseHandlerInterface
	useCase        *groupingapp.UseCase
	maxUploadBytes int64
}

// NewHandler создает новый HTTP обработчик группировки
func NewHandler(baseHandler common.BaseHandlerInterface, useCase *groupingapp.UseCase, maxUploadBytes int64) *Handler {
	return &Handler{
		baseHandler:    baseHandler,
		useCase:        useCase,
		maxUploadBytes: maxUploadBytes,
	}
}

// ItemDTO элемент группы в ответе API
type ItemDTO struct {
	SystemID    string `json:"system_id"`
	OriginalID  string `json:"original_id"`
	OriginFile  string `json:"origin_file"`
	Description string `json:"description"`
}

// GroupDTO группа в ответе API
type GroupDTO struct {
	ID       int       `json:"id"`
	Size     int       `json:"size"`
	KeyWords []string  `json:"key_words"`
	Items    []ItemDTO `json:"items"`
}

// GroupPageDTO страница групп
type GroupPageDTO struct {
	Total  int        `json:"total"`
	Offset int        `json:"offset"`
	Limit  int        `json:"limit"`
	Groups []GroupDTO `json:"groups"`
}

// MoveRequest тело запроса перемещения элемента
type MoveRequest struct {
	GroupID  *int     `json:"group_id" binding:"required"`
	KeyWords []string `json:"keywords"`
}

func toGroupDTO(view groupingdomain.GroupView) GroupDTO {
	dto := GroupDTO{
		ID:       view.ID,
		Size:     view.Size,
		KeyWords: view.KeyWords,
		Items:    make([]ItemDTO, 0, len(view.Items)),
	}
	if dto.KeyWords == nil {
		dto.KeyWords = []string{}
	}
	for _, item := range view.Items {
		dto.Items = append(dto.Items, ItemDTO{
			SystemID:    item.SystemID,
			OriginalID:  item.OriginalID,
			OriginFile:  item.OriginFile,
			Description: item.OriginalDescription,
		})
	}
	return dto
}

// HandleUploadFile принимает файл каталога
// @Summary Загрузка файла каталога
// @Description Извлекает таблицу из CSV, XLSX, PDF или HTML и распределяет элементы по группам
// @Tags grouping
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл каталога"
// @Success 200 {object} ingestion.Result "Итог загрузки"
// @Failure 400 {object} middleware.ErrorResponse "Некорректный запрос"
// @Failure 409 {object} middleware.ErrorResponse "Файл уже загружен"
// @Failure 413 {object} middleware.ErrorResponse "Файл слишком большой"
// @Failure 415 {object} middleware.ErrorResponse "Неподдерживаемый формат"
// @Failure 422 {object} middleware.ErrorResponse "Не удалось определить колонки"
// @Failure 502 {object} middleware.ErrorResponse "Ошибка языковой модели"
// @Router /uploadfile [post]
func (h *Handler) HandleUploadFile(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.baseHandler.HandleError(c, apperrors.NewPayloadTooLargeError("file is too large", err))
			return
		}
		h.baseHandler.HandleError(c, apperrors.NewValidationError("multipart field 'file' is required", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.baseHandler.HandleError(c, apperrors.NewInternalError("failed to open uploaded file", err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.baseHandler.HandleError(c, apperrors.NewInternalError("failed to read uploaded file", err))
		return
	}

	result, err := h.useCase.UploadFile(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		h.baseHandler.HandleError(c, mapError(err))
		return
	}

	h.baseHandler.WriteJSON(c, http.StatusOK, result)
}

// HandleListGroups возвращает страницу групп
// @Summary Список групп
// @Tags grouping
// @Produce json
// @Param offset query int false "Смещение" default(0)
// @Param limit query int false "Количество групп" default(50) maximum(500)
// @Param item_limit query int false "Элементов на группу (-1 - все)" default(20)
// @Success 200 {object} GroupPageDTO "Страница групп"
// @Failure 400 {object} middleware.ErrorResponse "Некорректный запрос"
// @Router /groups [get]
func (h *Handler) HandleListGroups(c *gin.Context) {
	offset, err := queryInt(c, "offset", 0)
	if err != nil || offset < 0 {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("offset must be a non-negative integer", err))
		return
	}
	limit, err := queryInt(c, "limit", defaultPageLimit)
	if err != nil || limit < 1 || limit > maxPageLimit {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("limit must be between 1 and 500", err))
		return
	}
	itemLimit, err := queryInt(c, "item_limit", defaultItemLimit)
	if err != nil {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("item_limit must be an integer", err))
		return
	}

	page := h.useCase.ListGroups(offset, limit, itemLimit)
	dto := GroupPageDTO{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
		Groups: make([]GroupDTO, 0, len(page.Groups)),
	}
	for _, g := range page.Groups {
		dto.Groups = append(dto.Groups, toGroupDTO(g))
	}
	h.baseHandler.WriteJSON(c, http.StatusOK, dto)
}

// HandleGetGroup возвращает группу со всеми элементами
// @Summary Группа со всеми элементами
// @Tags grouping
// @Produce json
// @Param id path int true "ID группы"
// @Success 200 {object} GroupDTO "Группа"
// @Failure 400 {object} middleware.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} middleware.ErrorResponse "Группа не найдена"
// @Router /groups/{id} [get]
func (h *Handler) HandleGetGroup(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("group id must be an integer", err))
		return
	}

	view, err := h.useCase.GetGroup(groupID, -1)
	if err != nil {
		h.baseHandler.HandleError(c, mapError(err))
		return
	}
	h.baseHandler.WriteJSON(c, http.StatusOK, toGroupDTO(view))
}

// HandleMoveItem переносит элемент в другую группу (-1 - новая группа)
// @Summary Перенос элемента в другую группу
// @Description group_id = -1 создает новую группу. В ответе - подозрительные элементы исходной группы
// @Tags grouping
// @Accept json
// @Produce json
// @Param system_id path string true "Системный ID элемента"
// @Param request body MoveRequest true "Группа назначения и ключевые слова"
// @Success 200 {object} groupingapp.MoveOutcome "Результат переноса"
// @Failure 400 {object} middleware.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} middleware.ErrorResponse "Элемент или группа не найдены"
// @Router /items/{system_id}/move [post]
func (h *Handler) HandleMoveItem(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("body must contain group_id", err))
		return
	}
	if *req.GroupID < groupingdomain.NewGroupID {
		h.baseHandler.HandleError(c, apperrors.NewValidationError("group_id must be -1 or an existing group id", groupingdomain.ErrInvalidGroupID))
		return
	}

	outcome, err := h.useCase.MoveItem(c.Request.Context(), c.Param("system_id"), *req.GroupID, req.KeyWords)
	if err != nil {
		h.baseHandler.HandleError(c, mapError(err))
		return
	}
	h.baseHandler.WriteJSON(c, http.StatusOK, outcome)
}

// HandleDump записывает снимок групп
// @Summary Запись снимка групп
// @Tags grouping
// @Produce json
// @Success 200 {object} groupingapp.DumpResult "Итог записи"
// @Failure 500 {object} middleware.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dump [post]
func (h *Handler) HandleDump(c *gin.Context) {
	result, err := h.useCase.Dump(c.Request.Context(), "manual")
	if err != nil {
		h.baseHandler.HandleError(c, apperrors.NewInternalError("failed to dump groups", err))
		return
	}
	h.baseHandler.WriteJSON(c, http.StatusOK, result)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// mapError переводит доменные ошибки в HTTP статусы
func mapError(err error) error {
	switch {
	case errors.Is(err, groupingdomain.ErrItemNotFound):
		return apperrors.NewNotFoundError("item not found", err)
	case errors.Is(err, groupingdomain.ErrTargetGroupNotFound):
		return apperrors.NewNotFoundError("target group not found", err)
	case errors.Is(err, groupingdomain.ErrGroupNotFound):
		return apperrors.NewNotFoundError("group not found", err)
	case errors.Is(err, ingestion.ErrDuplicateContent):
		return apperrors.NewConflictError("file content was already processed", err)
	case errors.Is(err, ingestion.ErrUnsupportedFormat):
		return apperrors.NewUnsupportedMediaTypeError("unsupported file format", err)
	case errors.Is(err, ingestion.ErrEmptyTable):
		return apperrors.NewUnprocessableError("no table found in file", err)
	case errors.Is(err, groupingdomain.ErrEscalationFailed),
		errors.Is(err, groupingdomain.ErrProtocolViolation),
		errors.Is(err, ingestion.ErrInvalidColumnSelection):
		return apperrors.NewBadGatewayError("reasoning service failed", err)
	default:
		return apperrors.NewInternalError("request failed", err)
	}
}
