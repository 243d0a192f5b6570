package animator

import "errors"

// 帧事件注册错误
//
// 注册时的动作/方向/帧号错误属于调用方或配置错误，直接返回给调用方；
// 运行时的查找失败只记录警告。
var (
	ErrUnknownAction    = errors.New("unknown action")
	ErrUnknownDirection = errors.New("unknown direction for action")
	ErrInvalidFrame     = errors.New("frame index out of range")
	ErrNilCallback      = errors.New("callback is nil")
)
