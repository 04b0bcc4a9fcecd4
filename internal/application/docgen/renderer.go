package docgen

import (
	"bytes"
	"context"
	"strings"
	"time"

	"legal-assist-ai-api/pkg/errors"
	"legal-assist-ai-api/pkg/metrics"

	"github.com/go-pdf/fpdf"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var rendererTracer = otel.Tracer("docgen.renderer")

// PDFRenderer 把文书正文渲染为 PDF 字节流
// 正文按行写入，自动换行与分页交给 fpdf 处理。
// Output 成功返回才算渲染完成，半成品不对外暴露。
type PDFRenderer struct{}

// NewPDFRenderer 创建 PDF 渲染器
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render 渲染文书，返回完整的 PDF 字节流。
func (r *PDFRenderer) Render(ctx context.Context, normalizedTitle, title, content string) ([]byte, error) {
	_, span := rendererTracer.Start(ctx, "renderer.Render",
		trace.WithAttributes(
			attribute.String("document.title", title),
			attribute.Int("document.content_length", len(content)),
		))
	defer span.End()

	start := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// 核心字体仅支持 Latin-1，超出的字符做降级转写
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 9, tr(title), "", "C", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		span.RecordError(err)
		return nil, errors.ErrRenderFailed.WithError(err)
	}

	metrics.DocumentRenderDuration.WithLabelValues(normalizedTitle).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("document.pdf_bytes", buf.Len()))
	return buf.Bytes(), nil
}
