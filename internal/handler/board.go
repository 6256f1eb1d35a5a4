package handler

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"schedule-backend/internal/board"
	"schedule-backend/internal/layout"
	"schedule-backend/internal/model"
	"schedule-backend/internal/service"
	"schedule-backend/internal/session"
)

// BoardHandler 편집 세션(보드) 핸들러
type BoardHandler struct {
	sessions  *session.Manager
	schedules *service.ScheduleService
	exporter  *Exporter
	seed      model.Timetable
	defaults  model.Settings
}

// NewBoardHandler BoardHandler 생성
//
// seed가 nil이면 새 보드는 라벨만 가진다.
func NewBoardHandler(sessions *session.Manager, schedules *service.ScheduleService, exporter *Exporter, seed model.Timetable, defaults model.Settings) *BoardHandler {
	return &BoardHandler{
		sessions:  sessions,
		schedules: schedules,
		exporter:  exporter,
		seed:      seed,
		defaults:  defaults,
	}
}

// CreateBoardRequest 보드 생성 요청
type CreateBoardRequest struct {
	Settings   *model.Settings `json:"settings,omitempty"`
	Empty      bool            `json:"empty"`
	ScheduleID string          `json:"scheduleId,omitempty"`
}

// AddNodeRequest 수업 추가 요청 (모두 생략 가능)
type AddNodeRequest struct {
	Class    *model.ClassBlock `json:"class,omitempty"`
	Position *model.Position   `json:"position,omitempty"`
}

// DeleteNodesRequest 선택 삭제 요청
type DeleteNodesRequest struct {
	IDs []string `json:"ids"`
}

// RowHeightRequest 행 높이 요청
type RowHeightRequest struct {
	Height float64 `json:"height"`
}

// SaveBoardRequest 저장 요청
type SaveBoardRequest struct {
	Name string `json:"name"`
}

// LoadBoardRequest 불러오기 요청
type LoadBoardRequest struct {
	ScheduleID string `json:"scheduleId"`
}

// CreateBoard 새 편집 세션 생성 (시드 또는 저장된 시간표)
func (h *BoardHandler) CreateBoard(c *fiber.Ctx) error {
	var req CreateBoardRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	settings := h.defaults.Clone()
	if req.Settings != nil {
		settings = req.Settings.Clone()
	}

	var (
		b          *board.Board
		scheduleID string
		err        error
	)
	switch {
	case req.ScheduleID != "":
		schedule, gerr := h.schedules.Get(c.UserContext(), req.ScheduleID)
		if gerr != nil {
			return boardError(c, gerr)
		}
		b = &board.Board{}
		err = b.Replace(schedule.Nodes.Data(), schedule.Settings.Data())
		scheduleID = schedule.ID
	case req.Empty || h.seed == nil:
		b, err = board.Build(nil, settings)
	default:
		b, err = board.Build(h.seed, settings)
	}
	if err != nil {
		return boardError(c, err)
	}

	s, err := h.sessions.Create(c.UserContext(), b, scheduleID)
	if err != nil {
		return boardError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(s)
}

// GetBoard 세션 조회
func (h *BoardHandler) GetBoard(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(s)
}

// DeleteBoard 세션 폐기 (저장하지 않은 변경은 사라짐)
func (h *BoardHandler) DeleteBoard(c *fiber.Ctx) error {
	if _, err := h.sessions.Get(c.UserContext(), c.Params("id")); err != nil {
		return boardError(c, err)
	}
	if err := h.sessions.Delete(c.UserContext(), c.Params("id")); err != nil {
		return boardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddNode 수업 노드 추가
func (h *BoardHandler) AddNode(c *fiber.Ctx) error {
	var req AddNodeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	var node model.Node
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		var err error
		node, err = s.Board.AddClass(req.Class, req.Position)
		return err
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(node)
}

// DuplicateNode 수업 노드 복제
func (h *BoardHandler) DuplicateNode(c *fiber.Ctx) error {
	var node model.Node
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		var err error
		node, err = s.Board.Duplicate(c.Params("nodeId"))
		return err
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(node)
}

// DeleteNode 노드 하나 삭제 (확인은 클라이언트 몫)
func (h *BoardHandler) DeleteNode(c *fiber.Ctx) error {
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		return s.Board.Delete(c.Params("nodeId"))
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteNodes 선택된 노드 일괄 삭제
func (h *BoardHandler) DeleteNodes(c *fiber.Ctx) error {
	var req DeleteNodesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	deleted := 0
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		deleted = s.Board.DeleteMany(req.IDs)
		return nil
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(fiber.Map{
		"deleted": deleted,
	})
}

// UpdateNode 인라인 편집 반영
func (h *BoardHandler) UpdateNode(c *fiber.Ctx) error {
	var edit board.ClassEdit
	if err := c.BodyParser(&edit); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var node model.Node
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		var err error
		node, err = s.Board.UpdateClass(c.Params("nodeId"), edit)
		return err
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(node)
}

// MoveNode 드래그 종료 위치 저장
func (h *BoardHandler) MoveNode(c *fiber.Ctx) error {
	var pos model.Position
	if err := c.BodyParser(&pos); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	return h.nodeMutation(c, func(b *board.Board, id string) error {
		return b.Move(id, pos)
	})
}

// ResizeNode 리사이즈 종료 크기 저장
func (h *BoardHandler) ResizeNode(c *fiber.Ctx) error {
	var size model.Size
	if err := c.BodyParser(&size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	return h.nodeMutation(c, func(b *board.Board, id string) error {
		return b.Resize(id, size)
	})
}

// nodeMutation 노드 변경 후 변경된 노드 응답
func (h *BoardHandler) nodeMutation(c *fiber.Ctx, fn func(b *board.Board, id string) error) error {
	id := c.Params("nodeId")
	var node model.Node
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		if err := fn(s.Board, id); err != nil {
			return err
		}
		n, err := s.Board.Node(id)
		if err != nil {
			return err
		}
		node = n.Clone()
		return nil
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(node)
}

// UpdateSettings 그리드 설정 변경 (재배치)
func (h *BoardHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings model.Settings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	s, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		return s.Board.ApplySettings(settings)
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(s.Board)
}

// SetRowHeight 시간 행 높이 지정
func (h *BoardHandler) SetRowHeight(c *fiber.Ctx) error {
	hour, err := c.ParamsInt("hour")
	if err != nil || hour < 0 || hour > 23 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid hour",
		})
	}
	var req RowHeightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	s, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		return s.Board.SetRowHeight(hour, req.Height)
	})
	if err != nil {
		return boardError(c, err)
	}
	return c.JSON(s.Board)
}

// SaveBoard 현재 보드를 이름으로 저장 (같은 이름이면 덮어씀)
func (h *BoardHandler) SaveBoard(c *fiber.Ctx) error {
	var req SaveBoardRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	var saved *model.Schedule
	_, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		nodes, settings := s.Board.Snapshot()
		schedule, err := h.schedules.Save(c.UserContext(), req.Name, nodes, settings)
		if err != nil {
			return err
		}
		saved = schedule
		s.ScheduleID = schedule.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidName) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "schedule name is required",
			})
		}
		if errors.Is(err, session.ErrSessionNotFound) {
			return boardError(c, err)
		}
		// 시간표는 이미 커밋됨, 세션의 scheduleId 갱신만 실패
		if saved != nil {
			log.Printf("[Board] ⚠️ Schedule %s saved but session %s not updated: %v", saved.ID, c.Params("id"), err)
			return c.JSON(saved)
		}
		log.Printf("[Board] ❌ Save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save schedule",
		})
	}

	log.Printf("[Board] 💾 Saved board %s as %q", c.Params("id"), saved.Name)
	return c.JSON(saved)
}

// LoadBoard 저장된 시간표로 보드 교체
func (h *BoardHandler) LoadBoard(c *fiber.Ctx) error {
	var req LoadBoardRequest
	if err := c.BodyParser(&req); err != nil || req.ScheduleID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "scheduleId is required",
		})
	}

	schedule, err := h.schedules.Get(c.UserContext(), req.ScheduleID)
	if err != nil {
		return boardError(c, err)
	}

	s, err := h.sessions.Mutate(c.UserContext(), c.Params("id"), func(s *session.Session) error {
		if err := s.Board.Replace(schedule.Nodes.Data(), schedule.Settings.Data()); err != nil {
			return err
		}
		s.ScheduleID = schedule.ID
		return nil
	})
	if err != nil {
		return boardError(c, err)
	}

	log.Printf("[Board] 📂 Loaded %q into board %s", schedule.Name, s.ID)
	return c.JSON(s)
}

// ExportBoard 현재 보드 내보내기
func (h *BoardHandler) ExportBoard(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return boardError(c, err)
	}

	name := "schedule"
	if s.ScheduleID != "" {
		if schedule, err := h.schedules.Get(c.UserContext(), s.ScheduleID); err == nil {
			name = schedule.Name
		}
	}
	return h.exporter.Send(c, name, s.Board.Nodes, s.Board.Settings)
}

// boardError 도메인 에러를 HTTP 응답으로 변환
func boardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "board not found",
		})
	case errors.Is(err, board.ErrNodeNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "node not found",
		})
	case errors.Is(err, service.ErrScheduleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "schedule not found",
		})
	case errors.Is(err, board.ErrNotClassNode), errors.Is(err, board.ErrNotDraggable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, board.ErrInvalidClass),
		errors.Is(err, layout.ErrInvalidClock),
		errors.Is(err, layout.ErrInvalidRange):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("[Board] ❌ %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "failed to update board",
	})
}
