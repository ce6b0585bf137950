package pipeline

// State is the progress of one posting through the pass.
type State string

const (
	StateNotStarted       State = "not_started"
	StateAlreadyPersisted State = "already_persisted"
	StateCheckFailed      State = "check_failed"
	StateDetailFetched    State = "detail_fetched"
	StateFileSelected     State = "file_selected"
	StateNoFile           State = "no_file"
	StateDownloaded       State = "downloaded"
	StateDownloadFailed   State = "download_failed"
	StateTextExtracted    State = "text_extracted"
	StateExtractFailed    State = "extract_failed"
	StateClassified       State = "classified"
	StatePersisted        State = "persisted"
	StatePersistFailed    State = "persist_failed"
)

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	StateNotStarted:     {StateAlreadyPersisted, StateCheckFailed, StateDetailFetched},
	StateDetailFetched:  {StateFileSelected, StateNoFile},
	StateFileSelected:   {StateDownloaded, StateDownloadFailed},
	StateNoFile:         {StateClassified},
	StateDownloaded:     {StateTextExtracted, StateExtractFailed},
	StateDownloadFailed: {StateClassified},
	StateTextExtracted:  {StateClassified},
	StateExtractFailed:  {StateClassified},
	StateClassified:     {StatePersisted, StatePersistFailed},
}

// Terminal reports whether no further transition leaves s.
func (s State) Terminal() bool {
	_, ok := transitions[s]
	return !ok
}

// CanTransition reports whether to directly follows from.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
