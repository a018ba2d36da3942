// scheduler.go — cooperative async runtime: Task objects and await/sleep
// semantics (§5).
//
// Grounded on the teacher's builtin_concurrency.go choice to isolate each
// goroutine behind its own lock rather than hand-write a continuation
// machine; spec §5 explicitly permits "parallel threads of execution
// provided the documented ordering guarantees hold," so each Task here
// runs on its own goroutine, guarded by the interpreter's single global
// lock (ip.mu), released only while a goroutine is genuinely blocked
// waiting on something else (a channel receive). This keeps the evaluator
// itself free of reentrancy concerns: only one goroutine ever executes
// VirtoLang statements at a time.
package virtolang

import "time"

type taskState int

const (
	taskPending taskState = iota
	taskRunning
	taskCompleted
	taskFailed
)

// Task is the handle returned by calling an async function, sleep(), or
// run_async() (§5). Awaiting it blocks the calling task until it settles.
type Task struct {
	state taskState
	value Value
	err   *VirtoError
	done  chan struct{}
}

func newTask() *Task {
	return &Task{state: taskPending, done: make(chan struct{})}
}

func (t *Task) settle(v Value, err *VirtoError) {
	if t.state != taskPending && t.state != taskRunning {
		return
	}
	if err != nil {
		t.state = taskFailed
		t.err = err
	} else {
		t.state = taskCompleted
		t.value = v
	}
	close(t.done)
}

func VTaskVal(t *Task) Value { return Value{Tag: VTask, Data: t} }

// spawnTask starts f running on its own goroutine, guarded by ip.mu the same
// way every other call into the evaluator is, and returns its Task handle
// immediately (§4.3 step 6: calling an async function never blocks the
// caller).
func (ip *Interpreter) spawnTask(f *Func, args []Value) Value {
	t := newTask()
	t.state = taskRunning
	ip.wg.Add(1)
	go func() {
		defer ip.wg.Done()
		ip.mu.Lock()
		defer ip.mu.Unlock()
		v, err := ip.runFunc(f, args, Span{})
		t.settle(v, err)
		if err != nil {
			ip.logUnawaitedFailure(t)
		}
	}()
	return VTaskVal(t)
}

// logUnawaitedFailure records a failed task so that, if it is never
// awaited, its error is still surfaced via the diagnostics renderer before
// the interpreter exits (§5: "still logs the error via D before the
// interpreter exits").
func (ip *Interpreter) logUnawaitedFailure(t *Task) {
	ip.mu2.Lock()
	defer ip.mu2.Unlock()
	ip.unawaitedFailures = append(ip.unawaitedFailures, t)
}

func (ip *Interpreter) markAwaited(t *Task) {
	ip.mu2.Lock()
	defer ip.mu2.Unlock()
	for i, u := range ip.unawaitedFailures {
		if u == t {
			ip.unawaitedFailures = append(ip.unawaitedFailures[:i], ip.unawaitedFailures[i+1:]...)
			return
		}
	}
}

// await implements §5's three-step await rule: a non-task value passes
// through unchanged; an already-settled task returns/raises immediately;
// otherwise the calling goroutine blocks on the task's done channel, with
// ip.mu released for the duration so other ready tasks can make progress.
func (ip *Interpreter) await(v Value, sp Span) (Value, *VirtoError) {
	if v.Tag != VTask {
		return v, nil
	}
	t := v.Data.(*Task)
	ip.markAwaited(t)
	if t.state == taskCompleted {
		return t.value, nil
	}
	if t.state == taskFailed {
		t.err.Trace = append(t.err.Trace, sp)
		return Null, t.err
	}
	ip.mu.Unlock()
	<-t.done
	ip.mu.Lock()
	ip.markAwaited(t) // the task may have recorded its failure while we waited
	if t.state == taskFailed {
		t.err.Trace = append(t.err.Trace, sp)
		return Null, t.err
	}
	return t.value, nil
}

// sleepTask implements the sleep(seconds) builtin: a task that settles
// after the given duration, without holding ip.mu while it waits.
func (ip *Interpreter) sleepTask(seconds float64) Value {
	t := newTask()
	t.state = taskRunning
	ip.wg.Add(1)
	go func() {
		defer ip.wg.Done()
		if seconds > 0 {
			time.Sleep(time.Duration(seconds * float64(time.Second)))
		}
		ip.mu.Lock()
		t.settle(Null, nil)
		ip.mu.Unlock()
	}()
	return VTaskVal(t)
}

// runAsyncTask implements run_async(path): a task running a module file to
// completion on its own goroutine (§4.8).
func (ip *Interpreter) runAsyncTask(path string, sp Span) Value {
	t := newTask()
	t.state = taskRunning
	ip.wg.Add(1)
	go func() {
		defer ip.wg.Done()
		ip.mu.Lock()
		defer ip.mu.Unlock()
		v, err := ip.runFile(path, sp)
		t.settle(v, err)
		if err != nil {
			ip.logUnawaitedFailure(t)
		}
	}()
	return VTaskVal(t)
}
