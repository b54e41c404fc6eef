package slider

// State 滑块分页加载状态
type State int

const (
	StateIdle State = iota
	StateLoadingFirstPage
	StateLoadingNextPage
	StateLoaded
	StateExhausted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingFirstPage:
		return "loading_first_page"
	case StateLoadingNextPage:
		return "loading_next_page"
	case StateLoaded:
		return "loaded"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText 以字符串形式输出状态
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PaginationState 单个滑块实例的分页状态快照
type PaginationState struct {
	CurrentPage int   `json:"currentPage"`
	HasMore     bool  `json:"hasMore"`
	IsLoading   bool  `json:"isLoading"`
	State       State `json:"state"`
}

// ScrollPosition 内容容器的滚动位置
type ScrollPosition struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ScrollThreshold 距离底部多少像素内触发下一页
const ScrollThreshold = 100

// NearBottom 是否已滚动到距底部 ScrollThreshold 以内
func (p ScrollPosition) NearBottom() bool {
	return p.ScrollTop+p.ClientHeight >= p.ScrollHeight-ScrollThreshold
}
