package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/models"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/scoring"
	"github.com/NAVNEET-PRATAP-BYTE/NeuroScreenAI/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type ReportHandler struct {
	log     *zap.Logger
	manager *session.Manager
}

func NewReportHandler(log *zap.Logger, manager *session.Manager) *ReportHandler {
	return &ReportHandler{log: log, manager: manager}
}

// Show returns the full assessment report. Only available once the session
// has reached the results stage.
func (h *ReportHandler) Show(c *gin.Context) {
	sess, timeline, err := h.manager.Results()
	if err != nil {
		if errors.Is(err, session.ErrInvalidStage) {
			c.JSON(http.StatusConflict, gin.H{"error": "results_not_ready"})
			return
		}
		h.log.Error("Failed to read results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
		return
	}
	c.JSON(http.StatusOK, scoring.BuildReport(sess, timeline))
}

// EmotionChart renders the emotion timeline as an echarts line chart.
func (h *ReportHandler) EmotionChart(c *gin.Context) {
	_, timeline, err := h.manager.Results()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "results_not_ready"})
		return
	}

	chart := generateEmotionChart(timeline)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(c.Writer); err != nil {
		h.log.Error("Failed to render emotion chart", zap.Error(err))
	}
}

func generateEmotionChart(points []models.EmotionDataPoint) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Emotional Stress Timeline",
			Subtitle: "Stress, anxiety and calmness across the session",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Name: "elapsed",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)

	labels := make([]string, 0, len(points))
	stress := make([]opts.LineData, 0, len(points))
	anxiety := make([]opts.LineData, 0, len(points))
	neutral := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		labels = append(labels, fmt.Sprintf("%.1fs", float64(p.TimestampMs)/1000))
		stress = append(stress, opts.LineData{Value: p.Stress})
		anxiety = append(anxiety, opts.LineData{Value: p.Anxiety})
		neutral = append(neutral, opts.LineData{Value: p.Neutral})
	}

	line.SetXAxis(labels).
		AddSeries("Stress", stress).
		AddSeries("Anxiety", anxiety).
		AddSeries("Calm", neutral).
		SetSeriesOptions(charts.WithLineStyleOpts(opts.LineStyle{Width: 2}))
	return line
}
