package ledger

import (
	"fmt"
	"strings"
	"time"

	"moneybot/internal/command"
	"moneybot/internal/core"
)

// historyTimeLayout matches SQLite's CURRENT_TIMESTAMP rendering.
const historyTimeLayout = "2006-01-02 15:04:05"

const (
	msgNoHistory = "ยังไม่มีประวัติการบันทึกข้อมูลค่ะ"
	msgCleared   = "🗑 ล้างข้อมูลเรียบร้อยแล้ว เริ่มบันทึกใหม่ได้เลยค่ะ"
	msgHelp      = "กรุณาพิมพ์ในรูปแบบ:\n" +
		"'" + command.KeywordIncome + " [รายการ] [จำนวนเงิน]'\n" +
		"'" + command.KeywordExpense + " [รายการ] [จำนวนเงิน]'\n" +
		"'" + command.KeywordSummary + "' เพื่อดูยอดรวมและกราฟ\n" +
		"'" + command.KeywordHistory + "' เพื่อดูรายการล่าสุด\n" +
		"'" + command.KeywordClear + "' เพื่อล้างข้อมูลปัจจุบัน"
)

// HelpText is the reply to any message no command understands.
func HelpText() string {
	return msgHelp
}

func recordedText(kind core.Kind, memo string, amount core.Money) string {
	return fmt.Sprintf("✅ บันทึก%s '%s' จำนวน %s บาท เรียบร้อยแล้วค่ะ",
		command.Verb(kind), memo, core.FormatAmount(amount))
}

func historyText(txs []core.Transaction, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 ประวัติ %d รายการล่าสุด:", limit)
	for _, t := range txs {
		fmt.Fprintf(&b, "\n- %s %s %s บาท (%s)",
			command.Verb(t.Kind), t.Memo, core.FormatAmount(t.Amount), formatTimestamp(t.RecordedAt))
	}
	return b.String()
}

func summaryText(s core.Summary) string {
	return fmt.Sprintf("📊 สรุปรายการ:\n🟢 รายรับรวม: %s บาท\n🔴 รายจ่ายรวม: %s บาท\n\n💰 คงเหลือ: %s บาท",
		core.FormatTotal(s.Income), core.FormatTotal(s.Expense), core.FormatTotal(s.Balance))
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(historyTimeLayout)
}
