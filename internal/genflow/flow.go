// internal/genflow/flow.go
package genflow

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go_5_ai_flashcard/internal/config"
	"go_5_ai_flashcard/internal/model"
	"go_5_ai_flashcard/internal/textutil"
)

// State は生成フローの状態
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StatePending    State = "pending"
	StateReady      State = "ready"
	StateFailed     State = "failed"
	StateCommitting State = "committing"
	StateCommitted  State = "committed"
)

var (
	// ErrPollingTimeout はポーリングが制限時間内に完了しなかったことを表す。
	// ジョブ自体はサーバー側で続行しており、GenerationID で再取得できる。
	ErrPollingTimeout = errors.New("genflow: polling timed out")

	ErrInvalidState     = errors.New("genflow: operation not allowed in current state")
	ErrUnknownProposal  = errors.New("genflow: unknown proposal id")
	ErrNothingSelected  = errors.New("genflow: no proposals selected")
	ErrInvalidEdit      = errors.New("genflow: edited text is invalid")
	ErrSourceTooLarge   = errors.New("genflow: source text likely exceeds the payload limit")
	ErrGenerationFailed = errors.New("genflow: generation failed")
)

// selection は提案ごとの採用状態と編集ドラフト
type selection struct {
	accepted bool
	edited   bool
	front    string
	back     string
	frontErr string
	backErr  string
}

// ProposalSelection は提案ごとの選別状態のスナップショット。
// FrontError/BackError が空でない間、その提案はコミットできない。
type ProposalSelection struct {
	Accepted   bool
	Edited     bool
	Front      string
	Back       string
	FrontError string
	BackError  string
}

// Flow は「テキスト投入 → ポーリング → 提案の選別 → コミット」の
// 一連のクライアント側状態遷移を管理します。ゴルーチンセーフではない。
type Flow struct {
	client Client
	clock  Clock

	state      State
	generation *model.GenerationResponse
	selections map[string]*selection
	commit     *model.CommitGenerationResponse
	lastErr    error
}

func NewFlow(client Client, clock Clock) *Flow {
	return &Flow{
		client:     client,
		clock:      clock,
		state:      StateIdle,
		selections: make(map[string]*selection),
	}
}

func (f *Flow) State() State { return f.state }

func (f *Flow) Generation() *model.GenerationResponse { return f.generation }

func (f *Flow) CommitResult() *model.CommitGenerationResponse { return f.commit }

func (f *Flow) LastErr() error { return f.lastErr }

// SelectedCount は採用中の提案の数を返します
func (f *Flow) SelectedCount() int {
	n := 0
	for _, sel := range f.selections {
		if sel.accepted {
			n++
		}
	}
	return n
}

// Selection は指定した提案の現在の選別状態を返します
func (f *Flow) Selection(proposalID string) (ProposalSelection, bool) {
	sel, ok := f.selections[proposalID]
	if !ok {
		return ProposalSelection{}, false
	}
	return ProposalSelection{
		Accepted:   sel.accepted,
		Edited:     sel.edited,
		Front:      sel.front,
		Back:       sel.back,
		FrontError: sel.frontErr,
		BackError:  sel.backErr,
	}, true
}

// Submit はソーステキストを投入し、生成完了までポーリングします。
// 投入自体が失敗すると failed になる。ポーリングのタイムアウトも failed に
// なるが、ジョブ自体はサーバー側で続行しているため Resume で再開できる。
func (f *Flow) Submit(ctx context.Context, req *model.CreateGenerationRequest) error {
	if f.state != StateIdle {
		return ErrInvalidState
	}
	// 確実に413で弾かれるサイズのリクエストは送信前に見積もりで止める
	if textutil.MightExceedPayloadSize(req.SourceText) {
		return ErrSourceTooLarge
	}

	f.state = StateSubmitting
	gen, err := f.client.CreateGeneration(ctx, req)
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		return err
	}
	f.generation = gen
	f.state = StatePending

	return f.poll(ctx)
}

// Resume はタイムアウト後にポーリングを再開します
func (f *Flow) Resume(ctx context.Context) error {
	timedOut := f.state == StateFailed && errors.Is(f.lastErr, ErrPollingTimeout)
	if f.state != StatePending && !timedOut {
		return ErrInvalidState
	}
	f.state = StatePending
	return f.poll(ctx)
}

// poll は PollingTimeout に達するまで PollingInterval 間隔で状態を確認する
func (f *Flow) poll(ctx context.Context) error {
	deadline := f.clock.Now().Add(config.PollingTimeout)

	for {
		done, err := f.pollOnce(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if !f.clock.Now().Add(config.PollingInterval).Before(deadline) {
			f.state = StateFailed
			f.lastErr = ErrPollingTimeout
			return ErrPollingTimeout
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.clock.After(config.PollingInterval):
		}
	}
}

// pollOnce は1回分の状態確認を行い、終端状態に達したら true を返す。
// 1回の取得失敗でフローは failed になる (再試行しない)。
func (f *Flow) pollOnce(ctx context.Context) (bool, error) {
	gen, err := f.client.GetGeneration(ctx, f.generation.GenerationID)
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		return false, err
	}
	f.generation = gen

	switch gen.Status {
	case model.GenerationStatusSucceeded:
		f.state = StateReady
		// 初期状態では全提案が未採用。ユーザーの操作で採用に切り替える
		f.selections = make(map[string]*selection, len(gen.Proposals))
		for _, p := range gen.Proposals {
			f.selections[p.ProposalID] = &selection{front: p.Front, back: p.Back}
		}
		return true, nil
	case model.GenerationStatusFailed:
		f.state = StateFailed
		f.lastErr = ErrGenerationFailed
		return true, nil
	default:
		return false, nil
	}
}

// ToggleAccept は提案の採用/却下を切り替えます
func (f *Flow) ToggleAccept(proposalID string) error {
	if f.state != StateReady {
		return ErrInvalidState
	}
	sel, ok := f.selections[proposalID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, proposalID)
	}
	sel.accepted = !sel.accepted
	return nil
}

// EditProposal は提案の編集ドラフトを更新します。採用状態は変えない。
// 元の提案テキストとの差分で edited を再計算し、長さ制限の検証結果を
// フィールドごとに記録する。制限を満たさないドラフトもそのまま保持され、
// コミット時に弾かれる。
func (f *Flow) EditProposal(proposalID, front, back string) error {
	if f.state != StateReady {
		return ErrInvalidState
	}
	sel, ok := f.selections[proposalID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProposal, proposalID)
	}
	orig := f.proposalByID(proposalID)

	sel.front = front
	sel.back = back
	sel.edited = orig == nil || front != orig.Front || back != orig.Back
	sel.frontErr = ""
	sel.backErr = ""
	if res := textutil.ValidateFlashcardFront(front); !res.IsValid {
		sel.frontErr = res.Error
	}
	if res := textutil.ValidateFlashcardBack(back); !res.IsValid {
		sel.backErr = res.Error
	}
	return nil
}

func (f *Flow) proposalByID(proposalID string) *model.Proposal {
	if f.generation == nil {
		return nil
	}
	for i := range f.generation.Proposals {
		if f.generation.Proposals[i].ProposalID == proposalID {
			return &f.generation.Proposals[i]
		}
	}
	return nil
}

// CommitSelected は採用中の提案をサーバーにコミットします
func (f *Flow) CommitSelected(ctx context.Context) (*model.CommitGenerationResponse, error) {
	if f.state != StateReady {
		return nil, ErrInvalidState
	}

	accepted := make([]model.CommitProposal, 0, len(f.selections))
	for id, sel := range f.selections {
		if !sel.accepted {
			continue
		}
		if sel.frontErr != "" || sel.backErr != "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEdit, id)
		}
		accepted = append(accepted, model.CommitProposal{
			ProposalID: id,
			Front:      sel.front,
			Back:       sel.back,
		})
	}
	if len(accepted) == 0 {
		return nil, ErrNothingSelected
	}
	// 提案の表示順を保ったままコミットする
	order := make(map[string]int, len(f.generation.Proposals))
	for i, p := range f.generation.Proposals {
		order[p.ProposalID] = i
	}
	sort.Slice(accepted, func(i, j int) bool {
		return order[accepted[i].ProposalID] < order[accepted[j].ProposalID]
	})

	f.state = StateCommitting
	resp, err := f.client.CommitGeneration(ctx, f.generation.GenerationID, &model.CommitGenerationRequest{Accepted: accepted})
	if err != nil {
		// 選別し直してリトライできるように ready に戻す
		f.state = StateReady
		f.lastErr = err
		return nil, err
	}
	f.commit = resp
	f.state = StateCommitted
	return resp, nil
}

// Reset はフローを初期状態に戻します
func (f *Flow) Reset() {
	f.state = StateIdle
	f.generation = nil
	f.selections = make(map[string]*selection)
	f.commit = nil
	f.lastErr = nil
}
