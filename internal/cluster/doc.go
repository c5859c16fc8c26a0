// Package cluster manages a fixed pool of worker execution contexts on a
// single machine.
//
// A worker is a goroutine paired with a private environment and, when
// needed, a private JavaScript runtime. In isolated mode the environment
// starts empty and receives values only through Pool.Export. In shared mode
// it starts as a deep copy of the coordinator snapshot taken at Start;
// later mutation inside a worker is never visible to the coordinator or to
// sibling workers.
package cluster
