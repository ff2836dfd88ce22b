package action

// A nil Result lets the next action run. A non-nil Result stops the chain: it either carries an
// error, asks for the reconcile to be submitted again, or simply returns.

func IsContinue(result *Result) bool {
	return result == nil
}

func IsError(result *Result) bool {
	return result != nil && result.Err != nil
}

// IsRequeue reports a request to run the reconcile again. Delays are not honoured by the worker;
// RequeueAfter is treated like Requeue.
func IsRequeue(result *Result) bool {
	if result == nil || result.Err != nil {
		return false
	}
	return result.Result.Requeue || result.Result.RequeueAfter > 0 //nolint: staticcheck
}

func IsReturn(result *Result) bool {
	return result != nil && !IsError(result) && !IsRequeue(result)
}

func IsSuccess(result *Result) bool {
	return !IsError(result) && !IsRequeue(result)
}
