package notifier

import (
	"fmt"
	"strings"
	"time"

	"ClaimSentinel/internal/model"
)

// FormatDecision formats a decision event into a Telegram message.
func FormatDecision(ev *model.DecisionEvent) string {
	var b strings.Builder

	switch ev.Kind {
	case model.DecisionIncrease:
		b.WriteString("📈 <b>扩容</b>")
	case model.DecisionClaim:
		b.WriteString("💰 <b>领取</b>")
	}
	b.WriteString(fmt.Sprintf(" | %s | %s\n\n", ev.Account, time.Now().Format("2006-01-02 15:04")))

	switch ev.Outcome {
	case model.OutcomeSubmitted:
		b.WriteString(fmt.Sprintf("✅ 已提交: %s\n", ev.Note))
		b.WriteString(fmt.Sprintf("交易ID: <code>%s</code>\n", ev.TxID))
	case model.OutcomeSubmitFailed:
		b.WriteString(fmt.Sprintf("❌ 提交失败: %s\n", ev.Note))
	default:
		b.WriteString(fmt.Sprintf("%s: %s\n", ev.Outcome, ev.Note))
	}

	if ev.Collected == ev.Collected { // skip NaN
		b.WriteString(fmt.Sprintf("\n已积累: %.0f\n", ev.Collected))
	}
	if ev.CurrentLimit > 0 {
		b.WriteString(fmt.Sprintf("当前上限: %.0f\n", ev.CurrentLimit))
	}
	if ev.Kind == model.DecisionIncrease && ev.Cost > 0 {
		b.WriteString(fmt.Sprintf("目标上限: %.0f | 费用: %.4f\n", ev.TargetLimit, ev.Cost))
	}
	if ev.Kind == model.DecisionClaim && ev.Outcome != model.OutcomeBelowMinClaim {
		b.WriteString(fmt.Sprintf("损耗: %.0f\n", ev.Waste))
	}

	return b.String()
}

// FormatCycleSummary formats a short end-of-cycle line.
func FormatCycleSummary(accounts int, elapsed time.Duration) string {
	return fmt.Sprintf("🔁 <b>巡检完成</b> | %d 个账户 | 耗时 %s", accounts, elapsed.Round(time.Second))
}
