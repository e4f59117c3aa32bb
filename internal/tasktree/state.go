package tasktree

// TaskState is the lifecycle state of a single task.
//
//	Created -> AdmissionChecked -> Rejected
//	                            -> Admitted -> Working -> FanningOut -> Joined
//	                                                   -> Failed
type TaskState string

const (
	TaskCreated          TaskState = "CREATED"
	TaskAdmissionChecked TaskState = "ADMISSION_CHECKED"
	TaskRejected         TaskState = "REJECTED"
	TaskAdmitted         TaskState = "ADMITTED"
	TaskWorking          TaskState = "WORKING"
	TaskFanningOut       TaskState = "FANNING_OUT"
	TaskJoined           TaskState = "JOINED"
	TaskFailed           TaskState = "FAILED"
)

func (s TaskState) String() string { return string(s) }
