package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"fxdesk/internal/calendar"
	"fxdesk/internal/config"
	"fxdesk/internal/curve"
	apierrors "fxdesk/internal/errors"
	"fxdesk/internal/infrastructure"
	"fxdesk/internal/middleware"
	"fxdesk/internal/services"
	api "fxdesk/pkg/contracts/api/v1"

	"cloud.google.com/go/civil"
)

type calcInput struct {
	TaskID string `json:"taskId,omitempty"`
	api.ForwardCalculateRequest
}

type calcOutput struct {
	TaskID string `json:"taskId,omitempty"`
	*services.Calculation
	Error string `json:"error,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fwdcalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (reads stdin if omitted)")
	holidaysFile := fs.String("holidays", "", "holiday YAML file (embedded tables if omitted)")
	timezone := fs.String("tz", "Asia/Seoul", "desk time zone used for today's date")
	verbose := fs.Bool("v", false, "log calculations to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.WithComponent(
		infrastructure.NewLoggerWithWriter(stderr, &slog.HandlerOptions{Level: level}), "fwdcalc")

	raw, err := readInput(strings.TrimSpace(*inputPath), stdin)
	if err != nil {
		return writeFatal(stdout, fmt.Sprintf("read input: %v", err))
	}

	inputs, isArray, err := parseInputs(raw)
	if err != nil {
		return writeFatal(stdout, fmt.Sprintf("parse JSON: %v", err))
	}

	cal, err := services.NewCalendarService(calendar.NewDefault(), config.CalendarConfig{
		HolidaysFile: *holidaysFile,
		Timezone:     *timezone,
	}, infrastructure.NoopMetrics(), logger)
	if err != nil {
		return writeFatal(stdout, err.Error())
	}
	pricing := services.NewPricingService(services.PricingDeps{
		Calendar: cal,
		Metrics:  infrastructure.NoopMetrics(),
	}, config.MarketConfig{}, config.QuoteConfig{}, logger)
	validation := middleware.NewValidationMiddleware(logger, nil)

	ctx := context.Background()
	hadError := false
	outputs := make([]calcOutput, 0, len(inputs))
	for _, in := range inputs {
		taskCtx := infrastructure.EnsureTraceID(ctx)
		if in.TaskID != "" {
			taskCtx = infrastructure.WithTraceID(ctx, in.TaskID)
		}
		out := process(taskCtx, pricing, validation, in)
		if out.Error != "" {
			hadError = true
			logger.WarnContext(taskCtx, "calculation failed", slog.String("error", out.Error))
		}
		outputs = append(outputs, out)
	}

	var payload interface{} = outputs
	if !isArray {
		payload = outputs[0]
	}
	b, _ := json.Marshal(payload)
	fmt.Fprintln(stdout, string(b))

	if hadError {
		return 1
	}
	return 0
}

func process(ctx context.Context, pricing *services.PricingService, validation *middleware.ValidationMiddleware, in calcInput) calcOutput {
	out := calcOutput{TaskID: in.TaskID}
	if err := validation.ValidateStruct(in.ForwardCalculateRequest); err != nil {
		out.Error = describe(err)
		return out
	}

	req := in.ForwardCalculateRequest
	points := make([]curve.TenorPoint, len(req.Points))
	for i, p := range req.Points {
		points[i] = curve.TenorPoint{Tenor: p.Tenor, Days: p.Days, SwapPoint: p.SwapPoint}
	}

	settlement, _ := civil.ParseDate(req.SettlementDate)
	calc := pricing.Calculate(ctx, services.CalculateInput{
		SpotRate:       req.SpotRate,
		Points:         points,
		SpotDate:       parseOptional(req.SpotDate),
		TradeDate:      parseOptional(req.TradeDate),
		SettlementDate: settlement,
	})
	out.Calculation = &calc
	out.Error = calc.Result.Error
	return out
}

// describe flattens field validation errors into one line.
func describe(err error) string {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok {
			msgs := make([]string, 0, len(details.Errors))
			for _, e := range details.Errors {
				msgs = append(msgs, e.Message)
			}
			return strings.Join(msgs, "; ")
		}
	}
	return err.Error()
}

func parseOptional(s string) *civil.Date {
	if s == "" {
		return nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseInputs accepts a single request object or an array of them.
func parseInputs(raw []byte) ([]calcInput, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, errors.New("empty input")
	}

	if trimmed[0] == '[' {
		var inputs []calcInput
		if err := json.Unmarshal(trimmed, &inputs); err != nil {
			return nil, true, err
		}
		if len(inputs) == 0 {
			return nil, true, errors.New("empty request array")
		}
		return inputs, true, nil
	}

	var in calcInput
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return nil, false, err
	}
	return []calcInput{in}, false, nil
}

func writeFatal(w io.Writer, msg string) int {
	b, _ := json.Marshal(calcOutput{Error: msg})
	fmt.Fprintln(w, string(b))
	return 1
}
