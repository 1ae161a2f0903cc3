package handlers

import "github.com/gofiber/fiber/v2"

type infoPage struct {
	Title      string
	Paragraphs []string
}

var infoPages = map[string]infoPage{
	"delivery": {
		Title: "Доставка",
		Paragraphs: []string{
			"До 20 кг: 400₽. До 100 кг: 700₽. Свыше 100 кг: 1000₽.",
			"При покупке нескольких вещей стоимость доставки рассчитывается по суммарному весу.",
			"Если обратная телефонная связь с Клиентом отсутствует, доставка товара переносится на следующую дату.",
			"Услуга доставки может быть перенесена на другой день по инициативе Клиента, но не менее чем за 1 день до назначенной даты.",
		},
	},
	"credit": {
		Title: "Кредит",
		Paragraphs: []string{
			"Кредитный кооператив «Партнер».",
			"Выберите товар в нашем магазине и обратитесь к консультанту для оформления кредита.",
			"Заполните простую анкету (паспорт и СНИЛС) и получите решение за несколько минут.",
			"Заберите покупку сразу после одобрения кредита.",
		},
	},
	"service": {
		Title: "Сервис",
		Paragraphs: []string{
			"Для гарантийного обслуживания понадобятся гарантийный талон с отметкой магазина, товарный или кассовый чек и паспорт на изделие (при наличии).",
		},
	},
	"shops": {
		Title: "Магазины",
		Paragraphs: []string{
			"Мы работаем ежедневно с 9:00 до 19:00.",
			"Оформление онлайн заказов по телефонам магазинов.",
		},
	},
	"feedback": {
		Title: "Обратная связь",
		Paragraphs: []string{
			"Звоните нам в рабочее время с 9:00 до 19:00.",
			"Или отправьте ваш вопрос по электронной почте, и мы ответим вам в течение рабочего дня.",
		},
	},
}

// Info serves the static informational pages by slug.
func Info(slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := infoPages[slug]
		if !ok {
			return notFoundPage(c, "Page not found")
		}
		return render(c, "info", fiber.Map{"Title": p.Title, "Paragraphs": p.Paragraphs})
	}
}
