package email

import (
	"github.com/sendwell/sendwell/internal/types"
)

// emailTemplates stores email templates as string constants, keyed by
// "<kind>.<language>". English is the fallback for every kind.
var emailTemplates = map[string]string{
	string(types.NotificationPlanActivated) + ".en": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.name}},</p>
    <p>Your <strong>{{.plan_name}}</strong> plan is now active. Welcome aboard!</p>
    <p>You can start sending campaigns right away from your dashboard.</p>
    <p>— The Sendwell team</p>
</body>
</html>`,

	string(types.NotificationPlanActivated) + ".es": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hola {{.name}},</p>
    <p>Tu plan <strong>{{.plan_name}}</strong> ya está activo. ¡Bienvenido!</p>
    <p>Ya puedes empezar a enviar campañas desde tu panel.</p>
    <p>— El equipo de Sendwell</p>
</body>
</html>`,

	string(types.NotificationPlanUpgraded) + ".en": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.name}},</p>
    <p>Your plan has been upgraded to <strong>{{.plan_name}}</strong>.</p>
    <p>The new limits are available immediately.</p>
    <p>— The Sendwell team</p>
</body>
</html>`,

	string(types.NotificationPlanUpgraded) + ".es": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hola {{.name}},</p>
    <p>Tu plan fue actualizado a <strong>{{.plan_name}}</strong>.</p>
    <p>Los nuevos límites ya están disponibles.</p>
    <p>— El equipo de Sendwell</p>
</body>
</html>`,

	string(types.NotificationCreditsPurchased) + ".en": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.name}},</p>
    <p>We added <strong>{{.credits}}</strong> email credits to your account.</p>
    <p>— The Sendwell team</p>
</body>
</html>`,

	string(types.NotificationCreditsPurchased) + ".es": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hola {{.name}},</p>
    <p>Agregamos <strong>{{.credits}}</strong> créditos de envío a tu cuenta.</p>
    <p>— El equipo de Sendwell</p>
</body>
</html>`,

	string(types.NotificationPaymentInProcess) + ".en": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.name}},</p>
    <p>Your payment for the <strong>{{.plan_name}}</strong> plan is being processed.
    We will confirm the change as soon as the payment settles.</p>
    <p>— The Sendwell team</p>
</body>
</html>`,

	string(types.NotificationStandBySubscribers) + ".en": `<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; font-size: 14px; line-height: 1.6; color: #333;">
    <p>Hi {{.name}},</p>
    <p><strong>{{.activated}}</strong> subscribers that were waiting for capacity are now active.</p>
    <p>— The Sendwell team</p>
</body>
</html>`,
}

// templateSubjects maps "<kind>.<language>" to the email subject line
var templateSubjects = map[string]string{
	string(types.NotificationPlanActivated) + ".en":      "Your plan is active",
	string(types.NotificationPlanActivated) + ".es":      "Tu plan está activo",
	string(types.NotificationPlanUpgraded) + ".en":       "Your plan was upgraded",
	string(types.NotificationPlanUpgraded) + ".es":       "Tu plan fue actualizado",
	string(types.NotificationCreditsPurchased) + ".en":   "Email credits added",
	string(types.NotificationCreditsPurchased) + ".es":   "Créditos agregados",
	string(types.NotificationPaymentInProcess) + ".en":   "Your payment is in process",
	string(types.NotificationStandBySubscribers) + ".en": "Subscribers activated",
}

// lookupTemplate resolves the template and subject for a kind and language,
// falling back to English
func lookupTemplate(kind types.NotificationKind, language string) (body string, subject string, ok bool) {
	key := string(kind) + "." + language
	if body, ok = emailTemplates[key]; ok {
		return body, templateSubjects[key], true
	}
	key = string(kind) + "." + types.DefaultLanguage
	body, ok = emailTemplates[key]
	return body, templateSubjects[key], ok
}
