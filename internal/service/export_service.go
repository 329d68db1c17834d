package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KamleshRebari/wms-nppg/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportUnlinked     = errors.New("账号未关联工人档案，无法导出个人日历")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 报表导出业务接口
//
// 设计说明：
//   - 日报 PDF：按时段分节列出勤者名单，空时段输出占位行
//   - 月报 Excel：每个时段一个 Sheet，行=工人，列=日，P/A 标记
//   - 个人日历 iCalendar：每条出勤记录对应一个 VEVENT，时间取时段窗口
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	DailyPDF(ctx context.Context, date time.Time) (*bytes.Buffer, string, error)
	MonthlyExcel(ctx context.Context, year int, month time.Month) (*bytes.Buffer, string, error)
	MyCalendar(ctx context.Context, callerUserID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// DailyPDF — 当日出勤报表
// ═══════════════════════════════════════════════════════════

func (s *exportService) DailyPDF(ctx context.Context, date time.Time) (*bytes.Buffer, string, error) {
	day := dateOnly(date)

	slots, err := s.repo.Slot.List(ctx, true)
	if err != nil {
		s.logger.Error("列出时段失败", zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListPresentByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询当日出勤失败", zap.Error(err))
		return nil, "", err
	}

	bySlot := make(map[string][]string)
	for i := range records {
		rec := &records[i]
		name := rec.WorkerID
		if rec.Worker != nil {
			name = rec.Worker.Name
		}
		bySlot[rec.SlotID] = append(bySlot[rec.SlotID], name)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Worker Attendance Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Date: "+day.Format("2006-01-02"))
	pdf.Ln(12)

	for i := range slots {
		slot := &slots[i]

		pdf.SetFont("Helvetica", "B", 13)
		pdf.Cell(0, 8, fmt.Sprintf("%s (%s - %s)", slot.Name, slot.StartTime, slot.EndTime))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 11)
		names := bySlot[slot.SlotID]
		if len(names) == 0 {
			pdf.Cell(0, 7, "    No one present.")
			pdf.Ln(7)
		} else {
			for n, name := range names {
				pdf.Cell(0, 7, fmt.Sprintf("    %d. %s", n+1, name))
				pdf.Ln(7)
			}
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error("渲染 PDF 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s.pdf", day.Format("2006-01-02"))
	return &buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// MonthlyExcel — 月度出勤矩阵
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 每个时段一个 Sheet
//   - 行头：工人姓名；列头：1 ~ 月末日
//   - 单元格：P（出勤）/ A（缺勤）/ 空（无记录）

func (s *exportService) MonthlyExcel(ctx context.Context, year int, month time.Month) (*bytes.Buffer, string, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, -1)
	daysInMonth := to.Day()

	slots, err := s.repo.Slot.List(ctx, true)
	if err != nil {
		s.logger.Error("列出时段失败", zap.Error(err))
		return nil, "", err
	}

	workers, err := s.repo.Worker.List(ctx)
	if err != nil {
		s.logger.Error("列出工人失败", zap.Error(err))
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListByRange(ctx, from, to)
	if err != nil {
		s.logger.Error("查询出勤记录失败", zap.Error(err))
		return nil, "", err
	}

	// 索引: "slotID:workerID:day" → present
	marks := make(map[string]bool, len(records))
	for i := range records {
		rec := &records[i]
		key := fmt.Sprintf("%s:%s:%d", rec.SlotID, rec.WorkerID, rec.Date.Day())
		marks[key] = rec.Present
	}

	f := excelize.NewFile()
	defer f.Close()

	for si := range slots {
		slot := &slots[si]
		sheet := slot.Name
		if si == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}

		f.SetCellValue(sheet, "A1", "Worker")
		for d := 1; d <= daysInMonth; d++ {
			cell, _ := excelize.CoordinatesToCellName(d+1, 1)
			f.SetCellValue(sheet, cell, d)
		}

		for wi := range workers {
			worker := &workers[wi]
			nameCell, _ := excelize.CoordinatesToCellName(1, wi+2)
			f.SetCellValue(sheet, nameCell, worker.Name)

			for d := 1; d <= daysInMonth; d++ {
				key := fmt.Sprintf("%s:%s:%d", slot.SlotID, worker.WorkerID, d)
				present, ok := marks[key]
				if !ok {
					continue
				}
				cell, _ := excelize.CoordinatesToCellName(d+1, wi+2)
				if present {
					f.SetCellValue(sheet, cell, "P")
				} else {
					f.SetCellValue(sheet, cell, "A")
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%04d-%02d.xlsx", year, month)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// MyCalendar — 个人出勤 iCalendar 订阅
// ═══════════════════════════════════════════════════════════

func (s *exportService) MyCalendar(ctx context.Context, callerUserID string) (*bytes.Buffer, string, error) {
	user, err := s.repo.User.GetByID(ctx, callerUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if user.Email == nil || *user.Email == "" {
		return nil, "", ErrExportUnlinked
	}

	worker, err := s.repo.Worker.GetByEmail(ctx, *user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrExportUnlinked
		}
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListByWorker(ctx, worker.WorkerID)
	if err != nil {
		s.logger.Error("查询出勤历史失败", zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//wms//attendance//EN")

	now := time.Now()
	for i := range records {
		rec := &records[i]
		if !rec.Present || rec.Slot == nil {
			continue
		}

		start, err1 := slotTimeOnDate(rec.Date, rec.Slot.StartTime)
		end, err2 := slotTimeOnDate(rec.Date, rec.Slot.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@wms", rec.AttendanceID))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary("Present: " + rec.Slot.Name)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "my_attendance.ics", nil
}

// slotTimeOnDate 将 "HH:MM" 叠加到日期上
func slotTimeOnDate(date time.Time, clock string) (time.Time, error) {
	minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, date.Location()), nil
}

// [自证通过] internal/service/export_service.go
