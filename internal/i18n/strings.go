package i18n

// Reply strings per locale. Markdown parse mode.
var strings = map[Locale]map[string]string{
	RU: {
		"welcome": "*Ас-саляму алейкум!*\n\n" +
			"Добро пожаловать в *Hadith Bot*!\n\n" +
			"*Возможности:*\n" +
			"• Ежедневный хадис в заданное время\n" +
			"• Сохранение избранных хадисов\n" +
			"• Поиск по ключевому слову\n" +
			"• Личные напоминания\n" +
			"• Язык: RU / EN / TR\n\n" +
			"*Команды:*\n" +
			"/hadith — случайный хадис\n" +
			"/hadith сабр — хадис по теме\n" +
			"/daily 08:30 — ежедневный хадис\n" +
			"/dailyoff — отключить ежедневный\n" +
			"/fav — сохранить последний\n" +
			"/favorites — мои избранные\n" +
			"/unfav 1 — удалить №1 из избранных\n" +
			"/remind 08:30 — напоминание\n" +
			"/reminders — мои напоминания\n" +
			"/delremind 1 — удалить напоминание №1\n" +
			"/lang — сменить язык",
		"item_title":       "*Хадис из Сахих аль-Бухари*",
		"daily_item_title": "*Хадис дня*",
		"reminder_title":   "*Напоминание*",
		"not_found":        "Хадис не найден. Попробуйте другой запрос.",
		"fav_saved":        "Хадис сохранён в избранном!",
		"fav_dup":          "Уже в избранном!",
		"fav_none":         "Нет последнего хадиса. Сначала запросите /hadith.",
		"favorites_empty":  "Нет избранных. Используйте /fav после /hadith.",
		"favorites_title":  "*Ваши избранные хадисы:*",
		"unfav_ok":         "Хадис №%d удалён из избранного.",
		"unfav_bad":        "Нет хадиса №%d в избранном.",
		"unfav_help":       "Формат: `/unfav 1`",
		"daily_set":        "Ежедневный хадис установлен на *%s*.",
		"daily_off":        "Ежедневный хадис отключён.",
		"daily_none":       "Ежедневный хадис не настроен. /daily HH:MM",
		"daily_current":    "Ежедневный хадис: *%s*.",
		"daily_prompt":     "Во сколько присылать хадис? Отправьте время в формате HH:MM, например 08:30.",
		"remind_ok":        "Напоминание добавлено: *%s*.",
		"remind_dup":       "Напоминание на %s уже есть.",
		"remind_bad":       "Формат: `/remind HH:MM`",
		"reminders_empty":  "Нет напоминаний. /remind HH:MM",
		"reminders_title":  "*Ваши напоминания:*",
		"delremind_ok":     "Напоминание №%d удалено.",
		"delremind_bad":    "Нет напоминания №%d.",
		"delremind_help":   "`/delremind 1` или `/delremind all`",
		"deleted_all":      "Все напоминания удалены (%d).",
		"btn_more":         "Ещё хадис",
		"btn_save":         "В избранное",
		"lang_title":       "Выберите язык. Текущий: *%s*",
		"lang_set":         "Язык изменён.",
		"bad_time":         "Формат времени: `HH:MM`",
		"storage_error":    "Не удалось сохранить изменения. Попробуйте позже.",
	},
	EN: {
		"welcome": "*As-salamu alaykum!*\n\n" +
			"Welcome to *Hadith Bot*!\n\n" +
			"*Features:*\n" +
			"• Daily hadith at a fixed time\n" +
			"• Save favourite hadiths\n" +
			"• Search by keyword\n" +
			"• Personal reminders\n" +
			"• Language: RU / EN / TR\n\n" +
			"*Commands:*\n" +
			"/hadith — random hadith\n" +
			"/hadith sabr — hadith by topic\n" +
			"/daily 08:30 — set daily hadith\n" +
			"/dailyoff — disable daily\n" +
			"/fav — save last hadith\n" +
			"/favorites — my favourites\n" +
			"/unfav 1 — remove favourite #1\n" +
			"/remind 08:30 — set reminder\n" +
			"/reminders — my reminders\n" +
			"/delremind 1 — delete reminder #1\n" +
			"/lang — change language",
		"item_title":       "*Hadith from Sahih al-Bukhari*",
		"daily_item_title": "*Hadith of the Day*",
		"reminder_title":   "*Reminder*",
		"not_found":        "No hadith found. Try a different query.",
		"fav_saved":        "Hadith saved to favourites!",
		"fav_dup":          "Already in favourites!",
		"fav_none":         "No recent hadith. Request /hadith first.",
		"favorites_empty":  "No favourites yet. Use /fav after /hadith.",
		"favorites_title":  "*Your favourite hadiths:*",
		"unfav_ok":         "Hadith #%d removed from favourites.",
		"unfav_bad":        "No hadith #%d in favourites.",
		"unfav_help":       "Format: `/unfav 1`",
		"daily_set":        "Daily hadith set for *%s*.",
		"daily_off":        "Daily hadith disabled.",
		"daily_none":       "Daily hadith not set. Use /daily HH:MM",
		"daily_current":    "Daily hadith: *%s*.",
		"daily_prompt":     "When should the daily hadith arrive? Send a time as HH:MM, e.g. 08:30.",
		"remind_ok":        "Reminder added: *%s*.",
		"remind_dup":       "Reminder at %s already exists.",
		"remind_bad":       "Format: `/remind HH:MM`",
		"reminders_empty":  "No reminders. Use /remind HH:MM",
		"reminders_title":  "*Your reminders:*",
		"delremind_ok":     "Reminder #%d removed.",
		"delremind_bad":    "No reminder #%d.",
		"delremind_help":   "`/delremind 1` or `/delremind all`",
		"deleted_all":      "All reminders deleted (%d).",
		"btn_more":         "Another hadith",
		"btn_save":         "Save to favourites",
		"lang_title":       "Choose a language. Current: *%s*",
		"lang_set":         "Language changed.",
		"bad_time":         "Time format: `HH:MM`",
		"storage_error":    "Could not save your changes. Try again later.",
	},
	TR: {
		"welcome": "*Es-selamu aleyküm!*\n\n" +
			"*Hadith Bot*'a hoş geldiniz!\n\n" +
			"*Özellikler:*\n" +
			"• Belirli saatte günlük hadis\n" +
			"• Favori hadis kaydetme\n" +
			"• Anahtar kelime ile arama\n" +
			"• Kişisel hatırlatmalar\n" +
			"• Dil: RU / EN / TR\n\n" +
			"*Komutlar:*\n" +
			"/hadith — rastgele hadis\n" +
			"/hadith sabır — konuya göre hadis\n" +
			"/daily 08:30 — günlük hadis saati\n" +
			"/dailyoff — günlük hadisi kapat\n" +
			"/fav — son hadisi favori yap\n" +
			"/favorites — favorilerim\n" +
			"/unfav 1 — 1 numaralı favoriyi sil\n" +
			"/remind 08:30 — hatırlatma ekle\n" +
			"/reminders — hatırlatmalarım\n" +
			"/delremind 1 — 1 numaralı hatırlatmayı sil\n" +
			"/lang — dili değiştir",
		"item_title":       "*Sahih el-Buhari'den Hadis*",
		"daily_item_title": "*Günün Hadisi*",
		"reminder_title":   "*Hatırlatma*",
		"not_found":        "Hadis bulunamadı. Farklı bir arama deneyin.",
		"fav_saved":        "Hadis favorilere kaydedildi!",
		"fav_dup":          "Zaten favorilerde!",
		"fav_none":         "Son hadis yok. Önce /hadith isteyin.",
		"favorites_empty":  "Henüz favori yok. /hadith sonrası /fav kullanın.",
		"favorites_title":  "*Favori hadisleriniz:*",
		"unfav_ok":         "%d numaralı hadis favorilerden silindi.",
		"unfav_bad":        "Favorilerde %d numaralı hadis yok.",
		"unfav_help":       "Format: `/unfav 1`",
		"daily_set":        "Günlük hadis *%s* olarak ayarlandı.",
		"daily_off":        "Günlük hadis devre dışı bırakıldı.",
		"daily_none":       "Günlük hadis ayarlanmamış. /daily SS:DD",
		"daily_current":    "Günlük hadis: *%s*.",
		"daily_prompt":     "Günlük hadis ne zaman gelsin? SS:DD biçiminde bir saat gönderin, örn. 08:30.",
		"remind_ok":        "Hatırlatma eklendi: *%s*.",
		"remind_dup":       "%s için zaten hatırlatma var.",
		"remind_bad":       "Format: `/remind SS:DD`",
		"reminders_empty":  "Hatırlatma yok. /remind SS:DD kullanın.",
		"reminders_title":  "*Hatırlatmalarınız:*",
		"delremind_ok":     "%d numaralı hatırlatma silindi.",
		"delremind_bad":    "%d numaralı hatırlatma yok.",
		"delremind_help":   "`/delremind 1` veya `/delremind all`",
		"deleted_all":      "Tüm hatırlatmalar silindi (%d).",
		"btn_more":         "Başka hadis",
		"btn_save":         "Favorilere ekle",
		"lang_title":       "Bir dil seçin. Geçerli: *%s*",
		"lang_set":         "Dil değiştirildi.",
		"bad_time":         "Saat formatı: `SS:DD`",
		"storage_error":    "Değişiklikler kaydedilemedi. Daha sonra tekrar deneyin.",
	},
}
