package outbound

// TaskDispatcher runs work on a shared pool so blocking collaborator calls
// never stall unrelated requests. Satisfied by *ants.Pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
