package botapp

import (
	"fmt"
	"strings"

	"github.com/streetpaws/feedpoint/core/telegram/format"
	"github.com/streetpaws/feedpoint/points"
)

// User-facing texts are hard-coded in one language on purpose; there is
// no localization layer.
const (
	msgWelcome = "🐾 Sokak Hayvanı Mama Paylaşım Noktası Botuna Hoş Geldiniz!\n\n" +
		"Burada mama bırakılacak noktaları paylaşabilirsiniz."

	msgAskLocation    = "📍 Konumunuzu paylaşın (Telegram'ın konum özelliğini kullanın):"
	msgAskDescription = "✅ Konum alındı!\n\nŞimdi açıklama yazın (örn: 'Kapı önü', 'Park bahçesi'):"
	msgAskSchedule    = "📅 Mama bırakılacak zaman/gün yazın (örn: 'Her gün saat 18:00', 'Cumartesi sabahları'):"
	msgFlowCancelled  = "İşlem iptal edildi."

	msgNoApprovedYet = "📍 Henüz onaylanmış konum yok."
	msgNoPointsYet   = "📍 Henüz konum yok."
	msgSendingMap    = "🗺️ Harita gönderiliyor..."
	mapFileName      = "mama_haritasi.html"

	msgNoOwnPoints  = "Henüz bir konum eklemediniz."
	msgDeleted      = "✅ Konum silindi!"
	msgNotAllowed   = "❌ Bu işlem için yetkiniz yok."
	msgNotFound     = "❌ Konum bulunamadı"
	msgAllApproved  = "✅ Tüm noktalar onaylanmış!"
	msgStorageError = "⚠️ Bir hata oluştu, lütfen tekrar deneyin."

	btnAddLocation  = "📍 Konum Ekle"
	btnViewMap      = "🗺️ Haritayı Gör"
	btnListPoints   = "📋 Tüm Noktaları Listele"
	btnMyPoints     = "🔍 Benim Noktalarım"
	btnAdminPanel   = "⚙️ Admin Paneli"
	btnPendingQueue = "📋 Onay Bekleyenleri Gör"
	btnApprove      = "✅ Onayla"
	btnReject       = "❌ Reddet"
)

func submittedText(rec points.Record) string {
	if rec.Approved {
		return fmt.Sprintf(
			"✅ Konum başarıyla eklendi!\n\n📍 Açıklama: %s\n⏰ Zaman: %s",
			rec.Description, rec.Schedule,
		)
	}
	return fmt.Sprintf(
		"⏳ Konumunuz admin onayı beklemektedir.\n\n📍 Açıklama: %s\n⏰ Zaman: %s",
		rec.Description, rec.Schedule,
	)
}

func approvedText(rec points.Record) string {
	return fmt.Sprintf("✅ Konum onaylandı: %s", rec.Description)
}

func rejectedText(rec points.Record) string {
	return fmt.Sprintf("❌ Konum reddedildi: %s", rec.Description)
}

func adminPanelText(pending, approved int) string {
	return fmt.Sprintf(
		"⚙️ *Admin Paneli*\n\n⏳ Onay Bekleyen: %d\n✅ Onaylı: %d",
		pending, approved,
	)
}

// escapeMD neutralizes Markdown control characters in user-entered text
// so a description like "a_b" cannot break the rendered message.
func escapeMD(s string) string {
	escaped, err := format.EscapeMarkdown(s, format.MarkdownV1, "")
	if err != nil {
		return s
	}
	return escaped
}

// listText renders the approved records as a numbered list.
func listText(records []points.Record) string {
	var b strings.Builder
	b.WriteString("📋 *Tüm Mama Noktaları:*\n\n")
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. 📍 %s\n", i+1, escapeMD(rec.Description))
		fmt.Fprintf(&b, "   ⏰ %s\n", escapeMD(rec.Schedule))
		fmt.Fprintf(&b, "   👤 @%s\n\n", escapeMD(rec.DisplayName()))
	}
	return b.String()
}

// ownListText renders the caller's records with their approval status.
func ownListText(records []points.Record) string {
	var b strings.Builder
	b.WriteString("🔍 *Sizin Eklediğiniz Noktalar:*\n\n")
	for _, rec := range records {
		status := "⏳"
		if rec.Approved {
			status = "✅"
		}
		fmt.Fprintf(&b, "%s %s - %s\n", status, escapeMD(rec.Description), escapeMD(rec.Schedule))
	}
	return b.String()
}

// pendingListText renders the moderation queue.
func pendingListText(records []points.Record) string {
	var b strings.Builder
	b.WriteString("⏳ *Onay Bekleyen Noktalar:*\n\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "📍 %s - %s\n👤 @%s\n\n",
			escapeMD(rec.Description), escapeMD(rec.Schedule), escapeMD(rec.DisplayName()))
	}
	return b.String()
}
