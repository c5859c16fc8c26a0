package cmd

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"yqhp/parcluster/internal/bench"
	"yqhp/parcluster/internal/cluster"
	"yqhp/parcluster/internal/config"
	"yqhp/parcluster/internal/report"
	"yqhp/parcluster/internal/schedule"
	"yqhp/parcluster/pkg/logger"
	"yqhp/parcluster/pkg/types"
)

var (
	// bench 命令的 flags
	benchWorkers    int
	benchMode       string
	benchReps       int
	benchItems      int
	benchStrategies []string
	benchJSONOutput string
)

// benchCmd 是 bench 子命令
var benchCmd = &cobra.Command{
	Use:   "bench [plan.yaml]",
	Short: "对比执行策略",
	Long: `对同一个工作负载运行多种执行策略并对比耗时。

可用策略：
  - sequential: 单线程基线，不经过 worker 池
  - static:     隔离 worker 池 + 静态分块调度
  - dynamic:    隔离 worker 池 + 动态队列调度
  - shared:     共享内存 worker 池 + 静态分块调度`,
	Example: `  # 使用默认计划
  parcluster bench

  # 指定 worker 数和重复次数
  parcluster bench -w 8 -r 20

  # 从文件加载计划并输出 JSON 报告
  parcluster bench plan.yaml --out-json report.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVarP(&benchWorkers, "workers", "w", 0, "worker 数量 (覆盖计划配置)")
	benchCmd.Flags().StringVar(&benchMode, "mode", "", "隔离模式 (isolated, shared)")
	benchCmd.Flags().IntVarP(&benchReps, "reps", "r", 0, "每个策略的重复次数 (覆盖计划配置)")
	benchCmd.Flags().IntVarP(&benchItems, "items", "n", 0, "输入序列长度 (覆盖计划配置)")
	benchCmd.Flags().StringArrayVarP(&benchStrategies, "strategy", "s", nil, "要运行的策略 (可多次指定)")
	benchCmd.Flags().StringVar(&benchJSONOutput, "out-json", "", "输出 JSON 报告到文件")
}

func runBench(cmd *cobra.Command, args []string) error {
	plan := config.DefaultPlan()
	if len(args) == 1 {
		loaded, err := config.LoadFromFile(args[0])
		if err != nil {
			return err
		}
		plan = loaded
	}

	applyOverrides(plan)

	if err := config.NewValidator().Validate(plan); err != nil {
		return err
	}

	switch {
	case debug:
		logger.EnableDebug()
	case quiet:
		logger.SetLevelFromString("error")
	default:
		logger.SetLevelFromString(plan.Logging.Level)
	}

	mode, err := types.ParseIsolationMode(plan.Mode)
	if err != nil {
		return err
	}

	strategies, err := buildStrategies(plan, mode)
	if err != nil {
		return err
	}

	logger.Info("comparing %d strategies, %d items, %d workers, %d reps",
		len(strategies), plan.Items, plan.Workers, plan.Repetitions)

	result, err := bench.Compare(strategies, plan.Repetitions)
	if err != nil {
		return err
	}

	if err := report.WriteTable(os.Stdout, result); err != nil {
		return err
	}
	if benchJSONOutput != "" {
		if err := report.WriteFile(benchJSONOutput, result); err != nil {
			return err
		}
		logger.Info("report written to %s", benchJSONOutput)
	}
	return nil
}

func applyOverrides(plan *config.Plan) {
	if benchWorkers > 0 {
		plan.Workers = benchWorkers
	}
	if benchMode != "" {
		plan.Mode = benchMode
	}
	if benchReps > 0 {
		plan.Repetitions = benchReps
	}
	if benchItems > 0 {
		plan.Items = benchItems
	}
	if len(benchStrategies) > 0 {
		plan.Strategies = benchStrategies
	}
}

// scaledSqrt 是基准工作负载：读取导出的 scale 绑定，对元素开平方。
// 所有并行策略共享它，保证对比公平。
var scaledSqrt = cluster.GoFunc(func(ctx context.Context, env *cluster.Environ, item any) (any, error) {
	scale, err := env.Get("scale")
	if err != nil {
		return nil, err
	}
	return math.Sqrt(item.(float64)) * scale.(float64), nil
})

// buildStrategies 组装计划选中的策略闭包。
// 每个闭包运行时自行启动并停止它的池。
func buildStrategies(plan *config.Plan, mode types.IsolationMode) (map[string]bench.Strategy, error) {
	items := make([]any, plan.Items)
	for i := range items {
		items[i] = float64(i + 1)
	}
	bindings := map[string]any{"scale": 1.0}

	all := map[string]bench.Strategy{
		"sequential": func() error {
			for _, v := range items {
				_ = math.Sqrt(v.(float64)) * 1.0
			}
			return nil
		},
		"static":  poolStrategy(plan.Workers, types.ModeIsolated, bindings, schedule.NewStaticScheduler(), items),
		"dynamic": poolStrategy(plan.Workers, types.ModeIsolated, bindings, schedule.NewDynamicScheduler(), items),
		"shared":  sharedStrategy(plan.Workers, bindings, items),
	}
	// 显式选择 shared 模式时，static/dynamic 也跑在共享池上
	if mode == types.ModeShared {
		all["static"] = sharedPoolStrategy(plan.Workers, bindings, schedule.NewStaticScheduler(), items)
		all["dynamic"] = sharedPoolStrategy(plan.Workers, bindings, schedule.NewDynamicScheduler(), items)
	}

	if len(plan.Strategies) == 0 {
		return all, nil
	}

	picked := make(map[string]bench.Strategy, len(plan.Strategies))
	for _, name := range plan.Strategies {
		s, ok := all[name]
		if !ok {
			return nil, fmt.Errorf("unknown strategy: %s", name)
		}
		picked[name] = s
	}
	return picked, nil
}

// poolStrategy 每次运行启动一个隔离池，导出绑定后调度执行。
func poolStrategy(workers int, mode types.IsolationMode, bindings map[string]any, sched schedule.Scheduler, items []any) bench.Strategy {
	return func() error {
		pool, err := cluster.Start(workers, mode)
		if err != nil {
			return err
		}
		defer pool.Stop()

		if err := pool.Export(bindings); err != nil {
			return err
		}

		_, err = sched.Run(context.Background(), pool, scaledSqrt, items)
		return err
	}
}

// sharedPoolStrategy 与 poolStrategy 相同，但 worker 通过快照继承状态。
func sharedPoolStrategy(workers int, snapshot map[string]any, sched schedule.Scheduler, items []any) bench.Strategy {
	return func() error {
		pool, err := cluster.Start(workers, types.ModeShared, cluster.WithSnapshot(snapshot))
		if err != nil {
			return err
		}
		defer pool.Stop()

		_, err = sched.Run(context.Background(), pool, scaledSqrt, items)
		return err
	}
}

// sharedStrategy 在不支持共享模式的平台上回退到隔离池。
func sharedStrategy(workers int, snapshot map[string]any, items []any) bench.Strategy {
	return func() error {
		pool, err := cluster.Start(workers, types.ModeShared, cluster.WithSnapshot(snapshot))
		if err == cluster.ErrUnsupportedPlatform {
			logger.Warn("shared mode unavailable, falling back to isolated workers")
			return poolStrategy(workers, types.ModeIsolated, snapshot, schedule.NewStaticScheduler(), items)()
		}
		if err != nil {
			return err
		}
		defer pool.Stop()

		_, err = schedule.NewStaticScheduler().Run(context.Background(), pool, scaledSqrt, items)
		return err
	}
}
