package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PranavReddyGaddam/GitBridge/application/ports/outbound"
	"github.com/PranavReddyGaddam/GitBridge/config"
	"github.com/PranavReddyGaddam/GitBridge/domain"
	"github.com/donovanhide/eventsource"
)

const DoneSignal = "[DONE]"
const MaxRetries = 3

// charactersPerMinute is the rough speaking rate used for the duration
// estimate in episode metadata.
const charactersPerMinute = 800

type chatRequest struct {
	Stream   bool          `json:"stream"`
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatChunkBody struct {
	Choices []chatResponseChoice `json:"choices"`
}

type chatResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type openRouterScriptSource struct {
	logger           outbound.LoggerPort
	openRouterConfig *config.OpenRouterConfig
	lineRegexp       *regexp.Regexp
}

// NewOpenRouterScriptSource streams a dialogue script from the OpenRouter
// chat-completions API and parses it into ordered segments.
func NewOpenRouterScriptSource(openRouterConfig *config.OpenRouterConfig, logger outbound.LoggerPort) outbound.ScriptSourcePort {
	return &openRouterScriptSource{
		logger:           logger,
		openRouterConfig: openRouterConfig,
		lineRegexp:       regexp.MustCompile(`^\[(\d{1,2}):(\d{2})\]\s*([A-Za-z]+):\s*(.+)$`),
	}
}

func (s *openRouterScriptSource) Produce(ctx context.Context, params outbound.ProduceScriptParams) (*domain.Script, error) {
	raw, err := s.streamCompletion(ctx, params)
	if err != nil {
		return nil, &domain.ScriptGenerationError{Err: err}
	}

	script, err := s.parseScript(raw, params)
	if err != nil {
		return nil, &domain.ScriptGenerationError{Err: err}
	}
	return script, nil
}

func (s *openRouterScriptSource) streamCompletion(ctx context.Context, params outbound.ProduceScriptParams) (string, error) {
	req, err := s.createRequest(ctx, params)
	if err != nil {
		s.logger.Error(err, "Failed to create HTTP request for script stream")
		return "", err
	}

	stream, err := eventsource.SubscribeWithRequest("", req)
	if err != nil {
		s.logger.Error(err, "Failed to subscribe to script stream")
		return "", err
	}

	var builder strings.Builder
	retryCount := 0

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev := <-stream.Events:
			if ev.Data() == DoneSignal {
				return builder.String(), nil
			}
			payload, err := s.extractPayload(ev)
			if err != nil {
				return "", err
			}
			builder.WriteString(payload)
			retryCount = 0
		case err := <-stream.Errors:
			if err == io.EOF {
				s.logger.Info("Script stream closed")
				return builder.String(), nil
			}
			if retryCount < MaxRetries {
				s.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
					"retry_count": retryCount})
				retryCount++
				continue
			}
			s.logger.Error(err, "Error occurred during streaming, max retries reached")
			return "", err
		}
	}
}

func (s *openRouterScriptSource) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}
	return chunkBody.Choices[0].Delta.Content, nil
}

func (s *openRouterScriptSource) createRequest(ctx context.Context, params outbound.ProduceScriptParams) (*http.Request, error) {
	hostName := params.SpeakerNames[domain.HostRole]
	expertName := params.SpeakerNames[domain.ExpertRole]

	promptMessage := chatMessage{
		Role: "system",
		Content: fmt.Sprintf("Write a two-person podcast script discussing the code repository %q (%s). "+
			"The episode should run about %d seconds.\n"+
			"Output format, one line per element, nothing else:\n"+
			"TITLE: <episode title>\n"+
			"TOPICS: <comma-separated key topics>\n"+
			"Then the dialogue, one line per spoken turn:\n"+
			"[mm:ss] HOST: <text>\n"+
			"[mm:ss] EXPERT: <text>\n"+
			"The HOST is called %s and the EXPERT is called %s; they alternate naturally. "+
			"Timestamps must never decrease.",
			params.RepoName, params.RepoURL, params.TargetDurationSeconds, hostName, expertName),
	}

	promptReq := chatRequest{
		Stream:   true,
		Model:    s.openRouterConfig.Model,
		Messages: []chatMessage{promptMessage},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.openRouterConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.openRouterConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}

func (s *openRouterScriptSource) parseScript(raw string, params outbound.ProduceScriptParams) (*domain.Script, error) {
	script := &domain.Script{
		RepoName:     params.RepoName,
		EpisodeTitle: fmt.Sprintf("Deep Dive: Understanding %s", params.RepoName),
	}

	lastTimestamp := -1
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if title, ok := strings.CutPrefix(line, "TITLE:"); ok {
			script.EpisodeTitle = strings.TrimSpace(title)
			continue
		}
		if topics, ok := strings.CutPrefix(line, "TOPICS:"); ok {
			for _, topic := range strings.Split(topics, ",") {
				if t := strings.TrimSpace(topic); t != "" {
					script.KeyTopics = append(script.KeyTopics, t)
				}
			}
			continue
		}

		match := s.lineRegexp.FindStringSubmatch(line)
		if match == nil {
			s.logger.WarnWithFields("Skipping unparseable script line", map[string]interface{}{"line": line})
			continue
		}

		minutes, _ := strconv.Atoi(match[1])
		seconds, _ := strconv.Atoi(match[2])
		total := minutes*60 + seconds
		if total < lastTimestamp {
			return nil, fmt.Errorf("script timestamps decrease at %q", line)
		}
		lastTimestamp = total

		script.Segments = append(script.Segments, domain.ScriptSegment{
			Ordinal:   len(script.Segments),
			Timestamp: fmt.Sprintf("%02d:%02d", minutes, seconds),
			Speaker:   s.resolveRole(match[3], params.SpeakerNames),
			Text:      strings.TrimSpace(match[4]),
		})
	}

	if len(script.Segments) == 0 {
		return nil, fmt.Errorf("script contained no dialogue lines")
	}

	minutes := script.TotalCharacters() / charactersPerMinute
	if minutes < 1 {
		minutes = 1
	}
	script.EstimatedDuration = fmt.Sprintf("%d minutes", minutes)

	return script, nil
}

// resolveRole accepts both the role literals and the configured speaker
// names; anything unrecognized falls back to HOST.
func (s *openRouterScriptSource) resolveRole(speaker string, names map[domain.SpeakerRole]string) domain.SpeakerRole {
	upper := strings.ToUpper(strings.TrimSpace(speaker))
	if upper == string(domain.ExpertRole) {
		return domain.ExpertRole
	}
	if upper == string(domain.HostRole) {
		return domain.HostRole
	}
	for role, name := range names {
		if strings.EqualFold(name, speaker) {
			return role
		}
	}
	return domain.HostRole
}
