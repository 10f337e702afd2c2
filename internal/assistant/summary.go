package assistant

import (
	"context"
	"fmt"

	"github.com/cleared-dev/finstat/internal/format"
	"github.com/cleared-dev/finstat/internal/pipeline"
)

const summaryPrompt = `Bạn là một chuyên gia phân tích tài chính chuyên nghiệp. Dựa trên các chỉ số tài chính sau, hãy đưa ra một nhận xét khách quan, ngắn gọn (khoảng 3-4 đoạn) về tình hình tài chính của doanh nghiệp. Đánh giá tập trung vào tốc độ tăng trưởng, thay đổi cơ cấu tài sản và khả năng thanh toán hiện hành.

Dữ liệu thô và chỉ số:

%s`

// SummaryPrompt returns the single-turn prompt for sc's assessment.
func SummaryPrompt(sc pipeline.SessionContext, f format.Formatter) string {
	return fmt.Sprintf(summaryPrompt, BuildContext(sc, f))
}

// Summarize asks m for a short objective assessment of the loaded analysis.
func Summarize(ctx context.Context, m Model, sc pipeline.SessionContext, f format.Formatter) (string, error) {
	if !sc.Ready() {
		return "", ErrNotReady
	}
	text, err := m.Generate(ctx, []Message{{Role: RoleUser, Text: SummaryPrompt(sc, f)}})
	if err != nil {
		return "", fmt.Errorf("summarizing %s: %w", sc.FileName, err)
	}
	return text, nil
}
