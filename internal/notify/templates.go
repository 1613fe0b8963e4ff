package notify

import "fmt"

const (
	ContentTypePlain = "text/plain; charset=UTF-8"
	ContentTypeHTML  = "text/html; charset=UTF-8"
)

// Mail is a fully rendered outbound message.
type Mail struct {
	To          string
	Subject     string
	Body        string
	ContentType string
}

// SiteURLs are the member-area links embedded in the templates.
type SiteURLs struct {
	Login         string
	ResetPassword string
	Instructions  string
}

// WelcomeMail carries the login credentials to a freshly provisioned
// buyer. The password travels in plaintext here; this is the only
// place it ever appears after generation.
func WelcomeMail(email, firstName, password string, urls SiteURLs) Mail {
	body := fmt.Sprintf(
		"Olá %s, Aqui estão seus detalhes de acesso:\nE-mail: %s\nSenha: %s\n\nAcesse agora em: %s e comece a aprender!",
		firstName, email, password, urls.Login,
	)
	return Mail{
		To:          email,
		Subject:     "Bem-vindo ao nosso site!",
		Body:        body,
		ContentType: ContentTypePlain,
	}
}

// ProductAvailableMail tells an existing buyer a new course was added
// to their account.
func ProductAvailableMail(email, firstName, productName string, urls SiteURLs) Mail {
	body := fmt.Sprintf(
		"<p>Olá %s,</p>\n\n"+
			"<p>O curso '%s' foi adicionado à sua conta. Você já pode acessá-lo em sua área de membros.</p>\n\n"+
			"<p>Acesse a plataforma: <a href='%s'>%s</a></p>\n\n"+
			"<p>Se você não lembra seus dados de acesso, <a href='%s'>clique aqui</a> para redefinir a sua senha ou veja as instruções no link a seguir: <a href='%s'>%s</a></p>\n\n"+
			"<p>Equipe</p>",
		firstName, productName, urls.Login, urls.Login, urls.ResetPassword, urls.Instructions, urls.Instructions,
	)
	return Mail{
		To:          email,
		Subject:     "Seu novo curso foi adicionado à sua conta!",
		Body:        body,
		ContentType: ContentTypeHTML,
	}
}

// AdminAlertMail reports a critical pipeline failure to the
// administrator.
func AdminAlertMail(to, message string) Mail {
	return Mail{
		To:          to,
		Subject:     "Erro Crítico no Webhook hotmart",
		Body:        "Um erro crítico ocorreu no processamento do webhook hotmart: \n\n" + message,
		ContentType: ContentTypePlain,
	}
}
