package order

import "fmt"

// StateTransition 状态转换
type StateTransition struct {
	From Status
	To   Status
}

// 模拟撮合是 IOC 语义：未成交部分在本轮结束时撤销。
var legalTransitions = map[StateTransition]bool{
	{StatusNew, StatusAck}:      true,
	{StatusNew, StatusRejected}: true,
	{StatusNew, StatusPartial}:  true,
	{StatusNew, StatusFilled}:   true,
	{StatusNew, StatusCanceled}: true,

	{StatusAck, StatusPartial}:  true,
	{StatusAck, StatusFilled}:   true,
	{StatusAck, StatusCanceled}: true,

	{StatusPartial, StatusPartial}:  true,
	{StatusPartial, StatusFilled}:   true,
	{StatusPartial, StatusCanceled}: true,
}

// ValidateTransition 验证状态转换是否合法；相同状态视为幂等。
func ValidateTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if !legalTransitions[StateTransition{From: from, To: to}] {
		return fmt.Errorf("illegal state transition: %s -> %s", from, to)
	}
	return nil
}

// IsFinal 判断是否是终态
func IsFinal(status Status) bool {
	switch status {
	case StatusFilled, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}
