// File: internal/usecase/agent_uc.go
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"video-ai-tutor/internal/domain/model"
	"video-ai-tutor/internal/domain/ports/adapter"
	"video-ai-tutor/internal/domain/ports/repository"
	"video-ai-tutor/internal/infra/logging"
	"video-ai-tutor/internal/infra/metrics"
)

// Compile-time check
var _ AgentUseCase = (*agentUC)(nil)

// Intent names one of the agent's tools. Routing is a closed set: an
// utterance maps to exactly one intent.
type Intent string

const (
	IntentAnswerFromDocs Intent = "answer_from_docs"
	IntentGenerateQuiz   Intent = "generate_quiz"
	IntentQuizAnswers    Intent = "quiz_answers"
	IntentSummarize      Intent = "summarize"
	IntentMindmap        Intent = "mindmap_image"
)

const (
	memoryWindow  = 6
	retrievalK    = 2
	declinePhrase = "I couldn't find that information in the provided videos."
)

type AgentUseCase interface {
	Chat(ctx context.Context, ownerID, utterance string) (string, error)
}

type agentUC struct {
	ai       adapter.AIServiceAdapter
	image    adapter.ImageGenAdapter
	index    repository.VectorIndexRepository
	chatLog  repository.ChatLogRepository
	sessions *SessionStore
	model    string
	log      *zerolog.Logger
}

func NewAgentUseCase(
	ai adapter.AIServiceAdapter,
	image adapter.ImageGenAdapter,
	index repository.VectorIndexRepository,
	chatLog repository.ChatLogRepository,
	sessions *SessionStore,
	chatModel string,
	logger *zerolog.Logger,
) *agentUC {
	return &agentUC{
		ai:       ai,
		image:    image,
		index:    index,
		chatLog:  chatLog,
		sessions: sessions,
		model:    chatModel,
		log:      logger,
	}
}

// Chat runs one turn: log the user line, route the utterance to a tool,
// execute it, log the reply. Tool failures still produce a logged reply so
// the transcript stays complete.
func (uc *agentUC) Chat(ctx context.Context, ownerID, utterance string) (string, error) {
	ctx = logging.WithOwnerID(ctx, ownerID)
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "AgentUC.Chat")()

	start := time.Now()
	if err := uc.chatLog.Append(ctx, ownerID, "User", utterance); err != nil {
		log.Warn().Err(err).Msg("chat log append failed")
	}

	if err := uc.index.GetOrCreate(ctx, ownerID); err != nil {
		return "", fmt.Errorf("ensure index for %s: %w", ownerID, err)
	}

	intent, err := uc.route(ctx, utterance)
	if err != nil {
		return "", fmt.Errorf("route utterance: %w", err)
	}

	reply, err := uc.execute(ctx, ownerID, intent, utterance)
	outcome := "ok"
	if err != nil {
		reply = "❌ Error: " + err.Error()
		outcome = "error"
	}

	if logErr := uc.chatLog.Append(ctx, ownerID, "Bot", reply); logErr != nil {
		log.Warn().Err(logErr).Msg("chat log append failed")
	}
	metrics.IncChatTurn(string(intent), outcome)
	metrics.ObserveChatTurn(string(intent), float64(time.Since(start).Milliseconds()))
	return reply, err
}

const routingPrompt = `You are a router for a study assistant. Classify the user's message
into exactly one of these tools and reply with the tool name only:

- answer_from_docs: a question about the content of the user's videos
- generate_quiz: the user wants a quiz or test on the material
- quiz_answers: the user wants the answers to the last quiz
- summarize: the user wants a summary or outline of the material
- mindmap_image: the user wants a mind map image of the material

Reply with only the tool name, nothing else.`

// route asks the model to pick a tool. Anything it returns outside the
// closed set falls back to answer_from_docs, which is the safe default for
// free-form questions.
func (uc *agentUC) route(ctx context.Context, utterance string) (Intent, error) {
	out, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "system", Content: routingPrompt},
		{Role: "user", Content: utterance},
	})
	if err != nil {
		return "", err
	}
	switch Intent(strings.ToLower(strings.TrimSpace(out))) {
	case IntentGenerateQuiz:
		return IntentGenerateQuiz, nil
	case IntentQuizAnswers:
		return IntentQuizAnswers, nil
	case IntentSummarize:
		return IntentSummarize, nil
	case IntentMindmap:
		return IntentMindmap, nil
	default:
		return IntentAnswerFromDocs, nil
	}
}

func (uc *agentUC) execute(ctx context.Context, ownerID string, intent Intent, utterance string) (string, error) {
	switch intent {
	case IntentGenerateQuiz:
		return uc.generateQuiz(ctx, ownerID)
	case IntentQuizAnswers:
		return uc.quizAnswers(ownerID), nil
	case IntentSummarize:
		return uc.summarize(ctx, ownerID)
	case IntentMindmap:
		return uc.mindmap(ctx, ownerID), nil
	default:
		return uc.answerFromDocs(ctx, ownerID, utterance)
	}
}

// answerFromDocs answers strictly from the owner's indexed transcripts. With
// no relevant material it declines rather than improvising.
func (uc *agentUC) answerFromDocs(ctx context.Context, ownerID, question string) (string, error) {
	hits, err := uc.index.SimilaritySearch(ctx, ownerID, question, retrievalK)
	if err != nil {
		return "", fmt.Errorf("similarity search: %w", err)
	}
	if len(hits) == 0 {
		uc.sessions.AppendTurn(ownerID, question, declinePhrase)
		return declinePhrase, nil
	}

	var sb strings.Builder
	for _, h := range hits {
		sb.WriteString(h.Text)
		sb.WriteString("\n\n")
	}

	messages := []adapter.Message{{
		Role: "system",
		Content: "You are a study assistant. Answer the question using only the " +
			"provided context from the user's videos. If the context does not " +
			"contain the answer, say exactly: \"" + declinePhrase + "\"",
	}}
	for _, t := range uc.sessions.History(ownerID, memoryWindow) {
		messages = append(messages, adapter.Message{Role: t.Role, Content: t.Content})
	}
	messages = append(messages, adapter.Message{
		Role:    "user",
		Content: fmt.Sprintf("Context:\n%s\nQuestion: %s", sb.String(), question),
	})

	answer, err := uc.ai.Chat(ctx, uc.model, messages)
	if err != nil {
		return "", fmt.Errorf("grounded answer: %w", err)
	}
	uc.sessions.AppendTurn(ownerID, question, answer)
	return answer, nil
}

const quizPrompt = `Based on the following transcript, generate exactly 10 multiple-choice
questions. Each question must have options a) through d) and must end with a
line in exactly this format:

Answer: <letter>

where <letter> is one of a, b, c, d. Do not add any other commentary.

Transcript:
%s`

// generateQuiz builds a 10-question quiz over everything indexed for the
// owner, keeps the full text (with answers) for later, and returns the
// redacted version.
func (uc *agentUC) generateQuiz(ctx context.Context, ownerID string) (string, error) {
	chunks, err := uc.index.SearchAll(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("load corpus: %w", err)
	}
	if len(chunks) == 0 {
		return "❌ No content indexed yet. Process some videos first.", nil
	}

	full, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "user", Content: fmt.Sprintf(quizPrompt, joinChunks(chunks))},
	})
	if err != nil {
		return "", fmt.Errorf("generate quiz: %w", err)
	}

	uc.sessions.SetQuiz(ownerID, full)
	masked := (&model.QuizRecord{FullQuiz: full}).Masked()
	uc.sessions.AppendTurn(ownerID, "Generate Quiz", masked)
	return masked, nil
}

// quizAnswers replays the stored quiz unredacted. No model call involved.
func (uc *agentUC) quizAnswers(ownerID string) string {
	q, ok := uc.sessions.Quiz(ownerID)
	if !ok {
		return "❌ No quiz has been generated yet. Please generate a quiz first."
	}
	return "✅ Here are the questions with answers:\n\n" + q.FullQuiz
}

const summaryPrompt = `Summarize the following transcript as a hierarchical outline suitable
for a mind map: a single central theme, main branches, and short sub-points.
Keep it concise.

Transcript:
%s`

func (uc *agentUC) summarize(ctx context.Context, ownerID string) (string, error) {
	chunks, err := uc.index.SearchAll(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("load corpus: %w", err)
	}
	if len(chunks) == 0 {
		return "❌ No content indexed yet. Process some videos first.", nil
	}
	out, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "user", Content: fmt.Sprintf(summaryPrompt, joinChunks(chunks))},
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return out, nil
}

// mindmap condenses the corpus into a short title and asks the image
// provider for a small mind map. Provider failures are reported in the reply
// rather than raised, so a broken image backend never fails the chat turn.
func (uc *agentUC) mindmap(ctx context.Context, ownerID string) string {
	summary, err := uc.summarize(ctx, ownerID)
	if err != nil {
		return "❌ Error generating mindmap image: " + err.Error()
	}
	if strings.HasPrefix(summary, "❌") {
		return summary
	}

	title, err := uc.ai.Chat(ctx, uc.model, []adapter.Message{
		{Role: "user", Content: "Condense the following outline into a short topic title of at most eight words:\n\n" + summary},
	})
	if err != nil {
		return "❌ Error generating mindmap image: " + err.Error()
	}

	url, err := uc.image.Generate(ctx, "Draw a very small mind map about:\n\n"+strings.TrimSpace(title))
	if err != nil {
		return "❌ Error generating mindmap image: " + err.Error()
	}
	return "🖼️ Mindmap image generated! View here: " + url
}

func joinChunks(chunks []model.TranscriptChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
