package postings

import (
	"fmt"
	"strings"
)

var samplePostings = []struct {
	career   string
	postings []string
}{
	{
		career: "software engineer",
		postings: []string{
			`Title: Software Engineer

Description: We are seeking a talented Software Engineer to join our team.

Requirements:
- Bachelor's degree in Computer Science or related field
- Proficiency in programming languages such as Java, Python, or JavaScript
- Experience with web development frameworks (React, Node.js, Django)
- Understanding of data structures and algorithms
- Knowledge of SQL and database design
- Familiarity with version control systems (Git)
- Strong problem-solving and analytical skills
- Excellent communication and teamwork abilities

Preferred:
- Experience with cloud platforms (AWS, Azure, GCP)
- Knowledge of containerization (Docker, Kubernetes)
- Understanding of CI/CD pipelines
- Experience with agile development methodologies`,
			`Title: Full Stack Software Developer

Description: Join our team as a Full Stack Developer.

Requirements:
- 2+ years of software development experience
- Strong skills in JavaScript/TypeScript, React, and Node.js
- Experience with RESTful API design and development
- Proficiency in SQL and NoSQL databases
- Understanding of software design patterns
- Experience with testing frameworks (Jest, Mocha)
- Knowledge of HTML5, CSS3, and responsive design
- Familiarity with agile methodologies

Nice to have:
- Experience with Python or Java
- Knowledge of machine learning concepts
- Understanding of DevOps practices
- Experience with microservices architecture`,
			`Title: Backend Software Engineer

Description: We're looking for a Backend Engineer to build scalable systems.

Requirements:
- Strong programming skills in Python, Java, or Go
- Experience designing and implementing RESTful APIs
- Deep understanding of databases (PostgreSQL, MongoDB)
- Knowledge of distributed systems and microservices
- Experience with message queues (RabbitMQ, Kafka)
- Understanding of caching strategies (Redis, Memcached)
- Proficiency in writing unit and integration tests
- Experience with cloud infrastructure (AWS preferred)

Preferred:
- Knowledge of GraphQL
- Experience with performance optimization
- Understanding of security practices
- Contributions to open-source projects`,
		},
	},
	{
		career: "data scientist",
		postings: []string{
			`Title: Data Scientist

Description: Seeking a Data Scientist to drive insights from data.

Requirements:
- Master's degree in Statistics, Computer Science, or related field
- Strong programming skills in Python and R
- Experience with machine learning frameworks (scikit-learn, TensorFlow, PyTorch)
- Proficiency in SQL and data manipulation
- Knowledge of statistical analysis and hypothesis testing
- Experience with data visualization tools (Matplotlib, Plotly, Tableau)
- Understanding of deep learning and neural networks
- Strong mathematical and analytical skills

Preferred:
- PhD in quantitative field
- Experience with big data technologies (Spark, Hadoop)
- Knowledge of natural language processing
- Experience deploying ML models to production`,
			`Title: Machine Learning Engineer

Description: Build and deploy machine learning models at scale.

Requirements:
- Bachelor's degree in Computer Science or related field
- Strong programming skills in Python
- Experience with ML frameworks (TensorFlow, PyTorch, scikit-learn)
- Knowledge of machine learning algorithms and theory
- Experience with data preprocessing and feature engineering
- Understanding of model evaluation and optimization
- Proficiency in SQL and data manipulation
- Experience with version control and collaborative development

Nice to have:
- Experience with MLOps and model deployment
- Knowledge of cloud platforms (AWS SageMaker, GCP AI Platform)
- Understanding of distributed computing
- Experience with computer vision or NLP`,
		},
	},
}

const genericPosting = `Title: %s

Description: We are seeking a talented professional for this role.

Requirements:
- Bachelor's degree in relevant field
- Strong analytical and problem-solving skills
- Excellent communication abilities
- Ability to work in a team environment
- Attention to detail and organizational skills

Preferred:
- Advanced degree
- Industry certifications
- Previous experience in the field`

// SamplePostings returns the built-in postings for a career field. A field
// matches a sample set when either name contains the other, case-insensitively;
// anything else gets a single generic posting titled with the field.
func SamplePostings(careerField string) []string {
	normalized := strings.ToLower(strings.TrimSpace(careerField))
	for _, sample := range samplePostings {
		if normalized != "" && (strings.Contains(normalized, sample.career) || strings.Contains(sample.career, normalized)) {
			return append([]string(nil), sample.postings...)
		}
	}
	return []string{fmt.Sprintf(genericPosting, careerField)}
}
