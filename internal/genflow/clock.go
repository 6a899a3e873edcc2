// internal/genflow/clock.go
package genflow

import "time"

// Clock は時間操作の抽象。テストではフェイクに差し替えて
// ポーリングのタイムアウトを即座に進められるようにする。
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func NewRealClock() Clock { return realClock{} }

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
