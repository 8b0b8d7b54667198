package affinity

// SetName attempts to set the OS-visible name of the calling thread —
// useful for telling the consumer thread apart from producers in `top
// -H`/`ps -L` output. Best-effort: on platforms without a cheap native
// call wired up it does nothing and returns ErrUnsupported.
func SetName(name string) error {
	return setName(name)
}
