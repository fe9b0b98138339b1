package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lacquer/internal/api"
	"lacquer/internal/ipc"
)

func newCaptureCommand(ctx *commandContext) *cobra.Command {
	captureCmd := &cobra.Command{
		Use:   "capture",
		Short: "Identify bottles from photo evidence",
	}
	captureCmd.AddCommand(newCaptureStartCommand(ctx))
	captureCmd.AddCommand(newCaptureFrameCommand(ctx))
	captureCmd.AddCommand(newCaptureFinalizeCommand(ctx))
	captureCmd.AddCommand(newCaptureAnswerCommand(ctx))
	captureCmd.AddCommand(newCaptureStatusCommand(ctx))
	captureCmd.AddCommand(newCaptureCancelCommand(ctx))
	return captureCmd
}

func newCaptureStartCommand(ctx *commandContext) *cobra.Command {
	var hintFlags []string
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open a new capture session",
		RunE: func(cmd *cobra.Command, args []string) error {
			hints, err := parseHints(hintFlags)
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			session, err := client.StartSession(cmd.Context(), api.StartSessionRequest{
				UserID: ctx.user(),
				Hints:  hints,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s started for %s\n", session.ID, session.UserID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&hintFlags, "hint", nil, "Evidence hint as key=value (brand, shadeName, gtin, finish); repeatable")
	return cmd
}

func parseHints(flags []string) (map[string]any, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	hints := make(map[string]any, len(flags))
	for _, flag := range flags {
		key, value, ok := strings.Cut(flag, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid hint %q, expected key=value", flag)
		}
		hints[key] = value
	}
	return hints, nil
}

func newCaptureFrameCommand(ctx *commandContext) *cobra.Command {
	var frameType string
	var imageRef string
	var evidence string
	var evidenceFile string
	cmd := &cobra.Command{
		Use:   "frame <session-id>",
		Short: "Attach an evidence frame to a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := evidence
			if evidenceFile != "" {
				data, err := os.ReadFile(evidenceFile)
				if err != nil {
					return fmt.Errorf("read evidence file: %w", err)
				}
				payload = string(data)
			}
			if payload != "" && !json.Valid([]byte(payload)) {
				return fmt.Errorf("evidence must be valid JSON")
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			frame, err := client.AddFrame(cmd.Context(), args[0], api.AddFrameRequest{
				FrameType: frameType,
				ImageRef:  imageRef,
				Evidence:  json.RawMessage(payload),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Frame %d (%s) recorded\n", frame.ID, frame.FrameType)
			return nil
		},
	}
	cmd.Flags().StringVarP(&frameType, "type", "t", "label", "Frame type: barcode, label, color, or other")
	cmd.Flags().StringVar(&imageRef, "image", "", "Reference to the captured image")
	cmd.Flags().StringVar(&evidence, "evidence", "", "Extracted evidence as inline JSON")
	cmd.Flags().StringVar(&evidenceFile, "evidence-file", "", "Read extracted evidence JSON from a file")
	return cmd
}

func newCaptureFinalizeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <session-id>",
		Short: "Resolve a session against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			detail, err := client.Finalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSessionDetail(cmd, detail)
			return nil
		},
	}
}

func newCaptureAnswerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <session-id> <value>",
		Short: "Answer the session's open question",
		Long: "Answer the session's open question. For candidate selection pass the\n" +
			"option number or \"skip\"; for brand/shade prompts pass free text like\n" +
			"\"OPI - Bubble Bath\".",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			value, err := resolveAnswerValue(cmd, client, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			detail, err := client.Answer(cmd.Context(), args[0], api.AnswerRequest{
				Value:      value,
				AnsweredBy: ctx.user(),
			})
			if err != nil {
				return err
			}
			renderSessionDetail(cmd, detail)
			return nil
		},
	}
}

// resolveAnswerValue translates a bare number into the displayed candidate
// option it refers to, so users can reply with the list position instead of
// retyping the whole option.
func resolveAnswerValue(cmd *cobra.Command, client *ipc.Client, sessionID, raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	position, err := strconv.Atoi(trimmed)
	if err != nil {
		return trimmed, nil
	}
	detail, err := client.Describe(cmd.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	question := detail.Question
	if question == nil || question.Key != "candidate_select" {
		return trimmed, nil
	}
	if position < 1 || position > len(question.Options) {
		return nil, fmt.Errorf("option %d is out of range, pick 1-%d", position, len(question.Options))
	}
	return question.Options[position-1], nil
}

func newCaptureStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <session-id>",
		Short: "Show a session's evidence, question, and decision log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			detail, err := client.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			renderSessionDetail(cmd, detail)
			return nil
		},
	}
}

func newCaptureCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <session-id>",
		Short: "Abandon a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			session, err := client.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session %s cancelled\n", session.ID)
			return nil
		},
	}
}

func renderSessionDetail(cmd *cobra.Command, detail api.SessionDetail) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	session := detail.Session

	fmt.Fprintf(out, "Session %s  user=%s  status=%s",
		session.ID, session.UserID, colorizeStatus(session.Status, colorize))
	if session.TopConfidence != nil {
		fmt.Fprintf(out, "  confidence=%.2f", *session.TopConfidence)
	}
	fmt.Fprintln(out)

	if session.Status == "matched" {
		fmt.Fprintf(out, "Accepted %s %d\n", session.AcceptedEntityType, session.AcceptedEntityID)
	}
	fmt.Fprintf(out, "Frames: %d\n", len(detail.Frames))

	if q := detail.Question; q != nil {
		fmt.Fprintf(out, "\nQuestion (%s): %s\n", q.Key, q.Prompt)
		for i, option := range q.Options {
			fmt.Fprintf(out, "  %d. %s\n", i+1, option)
		}
	}

	if len(detail.Decisions) > 0 {
		rows := make([][]string, 0, len(detail.Decisions))
		for _, decision := range detail.Decisions {
			rows = append(rows, []string{decision.CreatedAt, decision.Rule})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable(
			[]string{"Time", "Rule"}, rows,
			[]columnAlignment{alignLeft, alignLeft}))
	}
}
