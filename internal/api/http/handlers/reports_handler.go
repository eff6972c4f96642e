package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hpdsk/helpdesk-service/internal/service"
)

// ReportsHandler serves on-demand period reports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Generate GET /reports?time_frame=THIS_WEEK.
func (h *ReportsHandler) Generate(c *fiber.Ctx) error {
	frame := service.TimeFrame(c.Query("time_frame", string(service.FrameToday)))
	report, err := h.service.Generate(c.UserContext(), frame)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// TimeFrames GET /reports/time-frames lists the supported frames.
func (h *ReportsHandler) TimeFrames(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": service.TimeFrames()})
}
