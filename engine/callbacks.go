package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/hostbridge/core"
)

// CallbackType defines the specific lifecycle points where callbacks can be executed.
//
// Callbacks provide a flexible mechanism for hooking into stage execution
// without modifying the bridge. Each type represents a specific point in the
// host lifecycle where custom logic can be injected.
//
// Available callback types:
//   - BeforeStage/AfterStage: Around a complete lifecycle stage
//   - OnError: When a stage fails
//   - OnStop: When the host requests a stop
//
// Callbacks run synchronously on the host goroutine and can influence
// execution flow by returning errors that terminate the operation.
type CallbackType string

const (
	// CallbackBeforeStage is triggered before a stage starts, after input
	// binding. Use for validation or instrumentation.
	CallbackBeforeStage CallbackType = "before_stage"

	// CallbackAfterStage is triggered after a stage completed successfully.
	CallbackAfterStage CallbackType = "after_stage"

	// CallbackOnError is triggered when a stage fails.
	CallbackOnError CallbackType = "on_error"

	// CallbackOnStop is triggered when a stop is requested. It may run on
	// any goroutine.
	CallbackOnStop CallbackType = "on_stop"
)

// CallbackContext carries the information a callback may need.
type CallbackContext struct {
	// BindingID identifies the binding the stage belongs to.
	BindingID string

	// Logic is the user logic instance.
	Logic any

	// Stage is the lifecycle stage being executed.
	Stage core.Stage

	// Input is the bound input unit for process stages.
	Input any

	// Err is the stage error for CallbackOnError.
	Err error

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback defines the interface for stage lifecycle hooks.
//
// Implementations should be fast since they block the host goroutine.
// Returning an error terminates the associated stage.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	audit := NewFunctionCallback(
//	    CallbackBeforeStage,
//	    func(ctx context.Context, callbackCtx *CallbackContext) error {
//	        log.Printf("starting %s", callbackCtx.Stage)
//	        return nil
//	    },
//	)
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager orchestrates callback execution around stages.
//
// Callbacks are executed in registration order, and any callback returning
// an error stops execution and prevents subsequent callbacks from running.
// Registration and execution are safe for concurrent use.
type CallbackManager struct {
	mu        sync.RWMutex
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback for its type.
//
// Example:
//
//	manager := NewCallbackManager()
//	manager.RegisterCallback(loggingCallback)
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks executes all registered callbacks for the specified type
// and returns the first error.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	cm.mu.RLock()
	callbacks := append([]Callback(nil), cm.callbacks[callbackType]...)
	cm.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback forwards stage lifecycle events to a logging function.
//
// Example:
//
//	callback := NewLoggingCallback(CallbackBeforeStage, func(message string) {
//	    log.Printf("[ENGINE] %s", message)
//	})
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle event. Without a logger function the callback
// silently succeeds.
func (c *LoggingCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.logger != nil {
		message := fmt.Sprintf("[%s] Binding: %s, Stage: %s", c.callbackType, callbackCtx.BindingID, callbackCtx.Stage)
		if callbackCtx.Err != nil {
			message += ", Error: " + callbackCtx.Err.Error()
		}
		c.logger(message)
	}
	return nil
}

// InputValidationCallback validates input units before the process stage.
//
// Example:
//
//	validator := func(input any) error {
//	    if input == nil {
//	        return errors.New("input cannot be nil")
//	    }
//	    return nil
//	}
//	callback := NewInputValidationCallback(validator)
type InputValidationCallback struct {
	validator func(input any) error
}

// NewInputValidationCallback creates a new input validation callback.
func NewInputValidationCallback(validator func(input any) error) *InputValidationCallback {
	return &InputValidationCallback{
		validator: validator,
	}
}

// Type returns the callback type (always CallbackBeforeStage).
func (c *InputValidationCallback) Type() CallbackType {
	return CallbackBeforeStage
}

// Execute validates the input of process stages.
func (c *InputValidationCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	if c.validator != nil && callbackCtx.Stage == core.StageProcess {
		return c.validator(callbackCtx.Input)
	}
	return nil
}
