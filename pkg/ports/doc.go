/*
Package ports defines the driven ports of the hfsm runtime.

# Key Interfaces

  - SnapshotStore: persists the value blackboard and active path of a
    running animator so that long-lived hosts can resume after a restart.

RunSnapshotStoreContract is the shared test suite every adapter runs.
*/
package ports
