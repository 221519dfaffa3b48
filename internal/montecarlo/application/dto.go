// Package application 蒙特卡洛模拟服务的用例逻辑与 DTO
package application

import "github.com/wyfcoding/montecarlo/internal/montecarlo/domain"

// SimulateCommand 模拟命令
type SimulateCommand struct {
	InitialPrice float64 // 当前价格
	Volatility   float64 // 日波动率
	HorizonDays  int     // 预测天数
	NumPaths     int     // 模拟路径数
	// ExpectedReturn 为 nil 时使用配置中的日预期收益率
	ExpectedReturn *float64
}

// toRequest 转换为领域请求
func (c SimulateCommand) toRequest(defaultReturn float64) domain.SimulationRequest {
	req := domain.NewSimulationRequest(c.InitialPrice, c.Volatility, c.HorizonDays, c.NumPaths)
	req.ExpectedReturn = defaultReturn
	if c.ExpectedReturn != nil {
		req.ExpectedReturn = *c.ExpectedReturn
	}
	return req
}
