package ledgerlog

import "testing"

func TestDebugw(t *testing.T) {
	Debugw("test result code", "code", "SUCCESS", "destination", "acc1")
}
